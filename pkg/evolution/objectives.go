package evolution

import (
	"math"

	"github.com/triet4p/itapia-sub001/pkg/errors"
)

// Clip bounds v into [lo, hi]. A degenerate range (lo >= hi) disables
// clipping entirely.
func Clip(v, lo, hi float64) float64 {
	if lo >= hi {
		return v
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ObjectiveSpec describes how one raw metric becomes one objective value.
// All objectives are oriented so that higher is better: loss-type metrics
// (drawdown) are inverted, ratio-type metrics are clipped so one lucky
// backtest cannot dominate the search.
type ObjectiveSpec struct {
	Name   string
	Metric string

	// Invert applies 1 - v, for loss-type metrics.
	Invert bool

	// Clipping bounds, applied after inversion. Ignored when ClipLo >= ClipHi.
	ClipLo float64
	ClipHi float64

	// Worst is the fixed value assigned when evaluation degenerates
	// (zero trades, evaluator failure). It must be the floor of the
	// objective's range so inaction is never rewarded.
	Worst float64
}

// value computes the objective from raw metrics.
func (s ObjectiveSpec) value(m Metrics) float64 {
	v := m.Get(s.Metric, s.Worst)
	if s.Invert {
		v = 1 - v
	}
	return Clip(v, s.ClipLo, s.ClipHi)
}

// DefaultObjectiveSpecs returns the standard four-objective layout: return,
// risk-adjusted return, consistency and drawdown resilience.
func DefaultObjectiveSpecs() []ObjectiveSpec {
	return []ObjectiveSpec{
		{Name: "return", Metric: MetricCAGR, ClipLo: -1, ClipHi: 3, Worst: -1},
		{Name: "risk_adjusted", Metric: MetricSortino, ClipLo: -5, ClipHi: 5, Worst: -5},
		{Name: "consistency", Metric: MetricWinRate, ClipLo: 0, ClipHi: 1, Worst: 0},
		{Name: "drawdown_resilience", Metric: MetricMaxDrawdown, Invert: true, ClipLo: 0, ClipHi: 1, Worst: 0},
	}
}

// MultiObjectiveExtractor converts raw metrics into a fixed-length tuple of
// maximized objectives.
type MultiObjectiveExtractor struct {
	Specs []ObjectiveSpec
}

// NewMultiObjectiveExtractor validates the spec list.
func NewMultiObjectiveExtractor(specs []ObjectiveSpec) (*MultiObjectiveExtractor, error) {
	if len(specs) == 0 {
		return nil, errors.New(errors.ConstructionFailed, "extractor requires at least one objective spec")
	}
	return &MultiObjectiveExtractor{Specs: specs}, nil
}

// NumObjectives returns the tuple length.
func (e *MultiObjectiveExtractor) NumObjectives() int {
	return len(e.Specs)
}

// Extract maps metrics to the objective tuple. Degenerate evaluations
// (nil metrics, zero trades, non-finite values) return the fixed worst-case
// tuple instead of computing: rewarding a rule that never trades would
// poison selection, and a NaN slot is never "worse" under Pareto comparison
// so it would rank above honest tuples.
func (e *MultiObjectiveExtractor) Extract(m Metrics) []float64 {
	if m == nil || m.TotalTrades() == 0 {
		return e.Worst()
	}
	out := make([]float64, len(e.Specs))
	for i, spec := range e.Specs {
		v := spec.value(m)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return e.Worst()
		}
		out[i] = v
	}
	return out
}

// Worst returns the fixed worst-case tuple.
func (e *MultiObjectiveExtractor) Worst() []float64 {
	out := make([]float64, len(e.Specs))
	for i, spec := range e.Specs {
		out[i] = spec.Worst
	}
	return out
}

// SingleObjectiveExtractor collapses the objective tuple into one scalar
// with caller-supplied non-negative weights, normalized by their sum. It is
// the scalar half of the objective-extraction contract: the bundled engines
// run multi-objective, and orchestrating services that want a plain
// weighted-fitness search (or a single headline score for reporting) consume
// this type instead of reimplementing the transform pipeline.
type SingleObjectiveExtractor struct {
	multi   *MultiObjectiveExtractor
	weights []float64
}

// NewSingleObjectiveExtractor validates and normalizes the weights.
func NewSingleObjectiveExtractor(specs []ObjectiveSpec, weights []float64) (*SingleObjectiveExtractor, error) {
	multi, err := NewMultiObjectiveExtractor(specs)
	if err != nil {
		return nil, err
	}
	if len(weights) != len(specs) {
		return nil, errors.WithFields(
			errors.New(errors.ConstructionFailed, "weight count does not match objective count"),
			errors.Fields{"weights": len(weights), "objectives": len(specs)},
		)
	}

	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return nil, errors.New(errors.ConstructionFailed, "objective weights must be non-negative")
		}
		sum += w
	}
	if sum == 0 {
		return nil, errors.New(errors.ConstructionFailed, "objective weights must not all be zero")
	}

	normalized := make([]float64, len(weights))
	for i, w := range weights {
		normalized[i] = w / sum
	}
	return &SingleObjectiveExtractor{multi: multi, weights: normalized}, nil
}

// Weights returns the normalized weights.
func (e *SingleObjectiveExtractor) Weights() []float64 {
	out := make([]float64, len(e.weights))
	copy(out, e.weights)
	return out
}

// Extract maps metrics to one scalar fitness.
func (e *SingleObjectiveExtractor) Extract(m Metrics) float64 {
	values := e.multi.Extract(m)
	total := 0.0
	for i, v := range values {
		total += e.weights[i] * v
	}
	return total
}

// Worst returns the fixed worst-case scalar.
func (e *SingleObjectiveExtractor) Worst() float64 {
	total := 0.0
	for i, v := range e.multi.Worst() {
		total += e.weights[i] * v
	}
	return total
}
