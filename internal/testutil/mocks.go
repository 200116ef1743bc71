package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/triet4p/itapia-sub001/pkg/evolution"
	"github.com/triet4p/itapia-sub001/pkg/rules"
)

// MockEvaluator is a testify mock implementation of evolution.Evaluator for
// tests that assert on call patterns.
type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) Evaluate(ctx context.Context, rule *rules.Rule) (evolution.Metrics, error) {
	args := m.Called(ctx, rule)
	metrics, _ := args.Get(0).(evolution.Metrics)
	return metrics, args.Error(1)
}

// ScriptedEvaluator derives deterministic metrics from the structure of the
// rule under evaluation, so engine tests get stable, rule-dependent fitness
// without a real backtester. The same tree always yields the same metrics.
type ScriptedEvaluator struct {
	mu    sync.Mutex
	calls int

	// FailEvery makes every Nth call return an error, for exercising the
	// worst-case fitness path. Zero disables failures.
	FailEvery int

	// Err is returned on failing calls.
	Err error
}

// Calls reports how many evaluations have run.
func (e *ScriptedEvaluator) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func (e *ScriptedEvaluator) Evaluate(ctx context.Context, rule *rules.Rule) (evolution.Metrics, error) {
	e.mu.Lock()
	e.calls++
	call := e.calls
	e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.FailEvery > 0 && call%e.FailEvery == 0 {
		return nil, e.Err
	}

	return MetricsForTree(rule.Root), nil
}

// MetricsForTree maps tree shape to plausible backtest numbers. Larger,
// deeper trees score a little better, which gives selection a consistent
// gradient to climb in tests.
func MetricsForTree(root *rules.OperatorNode) evolution.Metrics {
	nodes := float64(rules.CountNodes(root))
	depth := float64(rules.Depth(root))

	return evolution.Metrics{
		evolution.MetricCAGR:        0.02 + nodes/200,
		evolution.MetricSortino:     0.5 + depth/10,
		evolution.MetricWinRate:     0.4 + nodes/100,
		evolution.MetricMaxDrawdown: 0.5 - depth/20,
		evolution.MetricTotalTrades: 10 + nodes,
	}
}

// FixedEvaluator returns the same metrics for every rule.
func FixedEvaluator(metrics evolution.Metrics) evolution.Evaluator {
	return evolution.EvaluatorFunc(func(ctx context.Context, rule *rules.Rule) (evolution.Metrics, error) {
		return metrics, nil
	})
}
