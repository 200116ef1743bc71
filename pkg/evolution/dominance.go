package evolution

import (
	"math"
	"sort"
)

// NonDominatedSort partitions individuals into Pareto fronts. Front 0 holds
// everything dominated by nobody; each later front holds what becomes
// non-dominated once earlier fronts are removed. Rank is written onto each
// individual and is valid until the next sorting pass.
func NonDominatedSort(individuals []*Individual) [][]*Individual {
	for _, ind := range individuals {
		ind.resetSortState()
	}

	dominated := make([][]int, len(individuals))
	domCount := make([]int, len(individuals))

	for i := range individuals {
		for j := range individuals {
			if i == j {
				continue
			}
			if individuals[i].Dominates(individuals[j]) {
				dominated[i] = append(dominated[i], j)
			} else if individuals[j].Dominates(individuals[i]) {
				domCount[i]++
			}
		}
	}

	var fronts [][]*Individual
	var currentIndices []int
	for i := range individuals {
		if domCount[i] == 0 {
			individuals[i].Rank = 0
			currentIndices = append(currentIndices, i)
		}
	}

	frontIndex := 0
	for len(currentIndices) > 0 {
		front := make([]*Individual, 0, len(currentIndices))
		for _, idx := range currentIndices {
			front = append(front, individuals[idx])
		}
		fronts = append(fronts, front)

		var nextIndices []int
		for _, idx := range currentIndices {
			for _, dominatedIdx := range dominated[idx] {
				domCount[dominatedIdx]--
				if domCount[dominatedIdx] == 0 {
					individuals[dominatedIdx].Rank = frontIndex + 1
					nextIndices = append(nextIndices, dominatedIdx)
				}
			}
		}
		frontIndex++
		currentIndices = nextIndices
	}

	return fronts
}

// CrowdingDistance assigns the diversity metric within one front. Boundary
// individuals on every objective get infinite distance; interior ones
// accumulate the normalized gap between their neighbors. Fronts of two or
// fewer members are all boundary.
func CrowdingDistance(front []*Individual) {
	if len(front) <= 2 {
		for _, ind := range front {
			ind.Crowding = math.Inf(1)
		}
		return
	}

	for _, ind := range front {
		ind.Crowding = 0
	}

	numObjectives := len(front[0].Objectives)
	for m := 0; m < numObjectives; m++ {
		sorted := make([]*Individual, len(front))
		copy(sorted, front)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Objectives[m] < sorted[j].Objectives[m]
		})

		sorted[0].Crowding = math.Inf(1)
		sorted[len(sorted)-1].Crowding = math.Inf(1)

		objectiveRange := sorted[len(sorted)-1].Objectives[m] - sorted[0].Objectives[m]
		if objectiveRange == 0 {
			continue
		}

		for i := 1; i < len(sorted)-1; i++ {
			sorted[i].Crowding += (sorted[i+1].Objectives[m] - sorted[i-1].Objectives[m]) / objectiveRange
		}
	}
}

// ReplaceNSGA performs environmental selection: merge parents and
// offspring, sort into fronts, append whole fronts while they fit, and fill
// the remainder from the first overflowing front by descending crowding
// distance. The result is exactly targetSize individuals when the combined
// pool is at least that large.
func ReplaceNSGA(parents, offspring []*Individual, targetSize int) []*Individual {
	combined := make([]*Individual, 0, len(parents)+len(offspring))
	combined = append(combined, parents...)
	combined = append(combined, offspring...)

	fronts := NonDominatedSort(combined)

	next := make([]*Individual, 0, targetSize)
	for _, front := range fronts {
		CrowdingDistance(front)
		if len(next)+len(front) <= targetSize {
			next = append(next, front...)
			continue
		}

		remaining := targetSize - len(next)
		if remaining > 0 {
			trimmed := make([]*Individual, len(front))
			copy(trimmed, front)
			sort.SliceStable(trimmed, func(i, j int) bool {
				return trimmed[i].Crowding > trimmed[j].Crowding
			})
			next = append(next, trimmed[:remaining]...)
		}
		break
	}
	return next
}
