package evolution

import (
	"context"
	"encoding/json"
	"math"
	"os"

	"github.com/triet4p/itapia-sub001/pkg/errors"
	"github.com/triet4p/itapia-sub001/pkg/rules"
)

// Snapshot pairs one recorded analysis report with the forward return the
// instrument realized over the following period.
type Snapshot struct {
	Report        rules.Report `json:"report"`
	ForwardReturn float64      `json:"forward_return"`
}

// ReplayEvaluator scores a rule by replaying it over a recorded series of
// snapshots as a long/flat strategy: a strictly positive signal holds the
// instrument for the following period, anything else stays flat. It is the
// bundled offline evaluator; live deployments plug in a full backtester
// behind the same interface.
type ReplayEvaluator struct {
	snapshots      []Snapshot
	periodsPerYear float64
}

// NewReplayEvaluator wraps a snapshot series. periodsPerYear annualizes the
// compound growth rate (252 for daily bars).
func NewReplayEvaluator(snapshots []Snapshot, periodsPerYear float64) (*ReplayEvaluator, error) {
	if len(snapshots) == 0 {
		return nil, errors.New(errors.ConstructionFailed, "replay evaluator requires at least one snapshot")
	}
	if periodsPerYear <= 0 {
		return nil, errors.New(errors.ConstructionFailed, "periods per year must be positive")
	}
	return &ReplayEvaluator{snapshots: snapshots, periodsPerYear: periodsPerYear}, nil
}

// LoadSnapshots reads a snapshot series from a JSON file.
func LoadSnapshots(path string) ([]Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.ResourceNotFound, "failed to read snapshot file"),
			errors.Fields{"path": path},
		)
	}
	var snapshots []Snapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to parse snapshot file")
	}
	return snapshots, nil
}

// Evaluate replays the rule over the series and derives the raw metrics the
// objective extractors consume. A rule that never enters reports zero
// trades and is handled by the extractor's degenerate path.
func (e *ReplayEvaluator) Evaluate(ctx context.Context, rule *rules.Rule) (Metrics, error) {
	equity := 1.0
	peak := 1.0
	maxDrawdown := 0.0

	trades := 0
	wins := 0
	var tradeReturns []float64

	for _, snap := range e.snapshots {
		if err := errors.CheckContext(ctx, "replay evaluation"); err != nil {
			return nil, err
		}

		signal, err := rule.Execute(snap.Report)
		if err != nil {
			return nil, err
		}
		if signal <= 0 {
			continue
		}

		trades++
		r := snap.ForwardReturn
		tradeReturns = append(tradeReturns, r)
		if r > 0 {
			wins++
		}

		equity *= 1 + r
		if equity > peak {
			peak = equity
		}
		if dd := (peak - equity) / peak; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}

	metrics := Metrics{
		MetricTotalTrades: float64(trades),
	}
	if trades == 0 {
		return metrics, nil
	}

	years := float64(len(e.snapshots)) / e.periodsPerYear
	if years > 0 && equity > 0 {
		metrics[MetricCAGR] = math.Pow(equity, 1/years) - 1
	}
	metrics[MetricWinRate] = float64(wins) / float64(trades)
	metrics[MetricMaxDrawdown] = maxDrawdown
	metrics[MetricSortino] = sortino(tradeReturns)
	metrics[MetricProfitFactor] = profitFactor(tradeReturns)

	return metrics, nil
}

// sortino is mean return over downside deviation. All-positive histories
// have no downside; they score the capped best.
func sortino(returns []float64) float64 {
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	downside := 0.0
	for _, r := range returns {
		if r < 0 {
			downside += r * r
		}
	}
	if downside == 0 {
		if mean > 0 {
			return 5 // matches the extractor's upper clip
		}
		return 0
	}
	return mean / math.Sqrt(downside/float64(len(returns)))
}

func profitFactor(returns []float64) float64 {
	grossProfit := 0.0
	grossLoss := 0.0
	for _, r := range returns {
		if r > 0 {
			grossProfit += r
		} else {
			grossLoss -= r
		}
	}
	if grossLoss == 0 {
		if grossProfit > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return grossProfit / grossLoss
}
