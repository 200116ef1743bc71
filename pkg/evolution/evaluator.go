package evolution

import (
	"context"

	"github.com/triet4p/itapia-sub001/pkg/rules"
)

// Metric names an evaluator is expected to report. The engine only ever
// reads the ones its objective extractors reference; everything else is
// carried through untouched for downstream consumers.
const (
	MetricCAGR            = "cagr"
	MetricSortino         = "sortino_ratio"
	MetricProfitFactor    = "profit_factor"
	MetricWinRate         = "win_rate"
	MetricMaxDrawdown     = "max_drawdown_pct"
	MetricReturnStability = "annual_return_stability"
	MetricTotalTrades     = "total_trades"
)

// Metrics is the raw performance report for one backtested rule. Values are
// opaque to the engine beyond what objective extraction reads.
type Metrics map[string]float64

// Get returns the named metric, or the fallback when absent.
func (m Metrics) Get(name string, fallback float64) float64 {
	if v, ok := m[name]; ok {
		return v
	}
	return fallback
}

// TotalTrades is a convenience accessor for the degenerate-run check.
func (m Metrics) TotalTrades() int {
	return int(m.Get(MetricTotalTrades, 0))
}

// Evaluator is the external backtesting collaborator. Implementations must
// be deterministic for a fixed rule and data window, and safe for
// concurrent calls: offspring are evaluated in parallel against a read-only
// market snapshot.
type Evaluator interface {
	Evaluate(ctx context.Context, rule *rules.Rule) (Metrics, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, rule *rules.Rule) (Metrics, error)

func (f EvaluatorFunc) Evaluate(ctx context.Context, rule *rules.Rule) (Metrics, error) {
	return f(ctx, rule)
}
