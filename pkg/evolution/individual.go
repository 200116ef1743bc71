package evolution

import (
	"github.com/triet4p/itapia-sub001/pkg/rules"
)

// Individual wraps one candidate rule with its fitness. Depending on run
// mode either the scalar Fitness or the Objectives tuple is populated.
// Rank and Crowding are bookkeeping for dominance sorting and are only
// meaningful during the sorting pass that assigned them.
type Individual struct {
	Rule       *rules.Rule
	Metrics    Metrics
	Fitness    float64
	Objectives []float64

	Rank     int
	Crowding float64
}

// NewIndividual wraps a rule with no fitness assigned yet.
func NewIndividual(rule *rules.Rule) *Individual {
	return &Individual{Rule: rule, Rank: -1}
}

// Clone deep-copies the individual, including its underlying rule tree.
// Fitness values are copied; sorting bookkeeping is reset.
func (ind *Individual) Clone() *Individual {
	clone := &Individual{
		Rule:    ind.Rule.Clone(),
		Fitness: ind.Fitness,
		Rank:    -1,
	}
	if ind.Objectives != nil {
		clone.Objectives = make([]float64, len(ind.Objectives))
		copy(clone.Objectives, ind.Objectives)
	}
	if ind.Metrics != nil {
		clone.Metrics = make(Metrics, len(ind.Metrics))
		for k, v := range ind.Metrics {
			clone.Metrics[k] = v
		}
	}
	return clone
}

// Dominates implements Pareto dominance over objective tuples: never worse
// on any objective and strictly better on at least one (all objectives are
// maximized). With scalar fitness it degenerates to ordinary ">".
func (ind *Individual) Dominates(other *Individual) bool {
	if len(ind.Objectives) == 0 || len(other.Objectives) == 0 {
		return ind.Fitness > other.Fitness
	}

	strictlyBetter := false
	for i := range ind.Objectives {
		if ind.Objectives[i] < other.Objectives[i] {
			return false
		}
		if ind.Objectives[i] > other.Objectives[i] {
			strictlyBetter = true
		}
	}
	return strictlyBetter
}

// Better is the total tournament comparator: dominance first, then rank,
// then crowding distance, with ties going to the receiver (first-sampled
// wins — a deliberate deterministic tie-break).
func (ind *Individual) Better(other *Individual) bool {
	if ind.Dominates(other) {
		return true
	}
	if other.Dominates(ind) {
		return false
	}
	if ind.Rank >= 0 && other.Rank >= 0 && ind.Rank != other.Rank {
		return ind.Rank < other.Rank
	}
	if ind.Crowding != other.Crowding {
		return ind.Crowding > other.Crowding
	}
	return true
}

// resetSortState clears the bookkeeping from a previous sorting pass.
func (ind *Individual) resetSortState() {
	ind.Rank = -1
	ind.Crowding = 0
}
