package evolution

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/triet4p/itapia-sub001/pkg/errors"
)

// WeightVector is one sub-problem of the decomposed search: a fixed blend
// of objective priorities (non-negative, summing to 1) plus the indices of
// its nearest neighbor sub-problems.
type WeightVector struct {
	Weights   []float64
	Neighbors []int
}

// GenerateWeightVectors enumerates the simplex lattice: every composition
// of numDivisions into numObjs non-negative integer parts, scaled down by
// numDivisions. The count must equal C(numDivisions+numObjs-1, numObjs-1);
// anything else means the recursion is broken and the run must not start.
func GenerateWeightVectors(numObjs, numDivisions int) ([]*WeightVector, error) {
	if numObjs < 2 {
		return nil, errors.New(errors.ConstructionFailed, "decomposition requires at least two objectives")
	}
	if numDivisions < 1 {
		return nil, errors.New(errors.ConstructionFailed, "decomposition requires at least one division")
	}

	var vectors []*WeightVector
	composition := make([]int, numObjs)

	var enumerate func(slot, remaining int)
	enumerate = func(slot, remaining int) {
		if slot == numObjs-1 {
			composition[slot] = remaining
			weights := make([]float64, numObjs)
			for i, part := range composition {
				weights[i] = float64(part) / float64(numDivisions)
			}
			vectors = append(vectors, &WeightVector{Weights: weights})
			return
		}
		for part := 0; part <= remaining; part++ {
			composition[slot] = part
			enumerate(slot+1, remaining-part)
		}
	}
	enumerate(0, numDivisions)

	expected := combin.Binomial(numDivisions+numObjs-1, numObjs-1)
	if len(vectors) != expected {
		return nil, errors.WithFields(
			errors.New(errors.ConstructionFailed, "weight vector count does not match composition formula"),
			errors.Fields{"generated": len(vectors), "expected": expected},
		)
	}
	return vectors, nil
}

// ComputeNeighborhoods fills each vector's neighbor list with the indices
// of its T nearest other vectors by Euclidean distance. Ties are broken by
// index order so neighborhoods are stable across runs.
func ComputeNeighborhoods(vectors []*WeightVector, t int) error {
	if t < 1 || t >= len(vectors) {
		return errors.WithFields(
			errors.New(errors.ConstructionFailed, "neighborhood size must be in [1, len(vectors)-1]"),
			errors.Fields{"size": t, "vectors": len(vectors)},
		)
	}

	type neighbor struct {
		index    int
		distance float64
	}

	for i, v := range vectors {
		candidates := make([]neighbor, 0, len(vectors)-1)
		for j, other := range vectors {
			if i == j {
				continue
			}
			candidates = append(candidates, neighbor{
				index:    j,
				distance: floats.Distance(v.Weights, other.Weights, 2),
			})
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			if candidates[a].distance != candidates[b].distance {
				return candidates[a].distance < candidates[b].distance
			}
			return candidates[a].index < candidates[b].index
		})

		v.Neighbors = make([]int, t)
		for k := 0; k < t; k++ {
			v.Neighbors[k] = candidates[k].index
		}
	}
	return nil
}

// ReferencePoint tracks the best value observed per objective across the
// whole run (objectives are maximized).
type ReferencePoint struct {
	Best []float64
}

// NewReferencePoint starts every slot at negative infinity so the first
// observation always registers.
func NewReferencePoint(numObjs int) *ReferencePoint {
	best := make([]float64, numObjs)
	for i := range best {
		best[i] = math.Inf(-1)
	}
	return &ReferencePoint{Best: best}
}

// Update absorbs an objective tuple.
func (r *ReferencePoint) Update(objectives []float64) {
	for i, v := range objectives {
		if v > r.Best[i] {
			r.Best[i] = v
		}
	}
}

// Tchebycheff computes the weighted Tchebycheff scalarization of an
// objective tuple against the reference point: the largest weighted gap to
// the best observed value. Lower is better. Zero weights are floored so no
// objective is ever entirely ignored.
func Tchebycheff(objectives, weights []float64, ref *ReferencePoint) float64 {
	const minWeight = 1e-6

	worst := math.Inf(-1)
	for i := range objectives {
		w := weights[i]
		if w < minWeight {
			w = minWeight
		}
		gap := w * (ref.Best[i] - objectives[i])
		if gap > worst {
			worst = gap
		}
	}
	return worst
}
