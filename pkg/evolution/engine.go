package evolution

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/triet4p/itapia-sub001/pkg/errors"
	"github.com/triet4p/itapia-sub001/pkg/logging"
	"github.com/triet4p/itapia-sub001/pkg/rules"
)

// Result is what a finished run hands to downstream consumers: the final
// population and its non-dominated front. Each individual carries its
// objective tuple and raw metrics; interpretation (thresholds, labels) is
// someone else's job.
type Result struct {
	Population  *Population
	Front       []*Individual
	Generations int
}

// evalOutcome summarizes one generation's evaluator usage for logging.
type evalOutcome struct {
	evaluations int
	failures    int
	zeroTrades  int
}

// evaluateAll runs the external evaluator over every individual with
// bounded concurrency and waits for all of them (replacement needs every
// fitness). Evaluator failures and degenerate runs are absorbed into the
// fixed worst-case tuple; one bad individual must never halt a generation.
func evaluateAll(ctx context.Context, evaluator Evaluator, extractor *MultiObjectiveExtractor, individuals []*Individual, concurrency int) evalOutcome {
	logger := logging.GetLogger()

	p := pool.New().WithMaxGoroutines(concurrency)

	var mu sync.Mutex
	outcome := evalOutcome{}

	for _, ind := range individuals {
		ind := ind
		p.Go(func() {
			metrics, err := evaluator.Evaluate(ctx, ind.Rule)

			mu.Lock()
			defer mu.Unlock()
			outcome.evaluations++

			if err != nil {
				logger.Debug(ctx, "absorbed evaluator failure: %v", wrapEvalFailure(err, ind.Rule.RuleID))
				outcome.failures++
				ind.Metrics = nil
				ind.Objectives = extractor.Worst()
				ind.Fitness = meanOf(ind.Objectives)
				return
			}
			if metrics.TotalTrades() == 0 {
				outcome.zeroTrades++
			}

			ind.Metrics = metrics
			ind.Objectives = extractor.Extract(metrics)
			ind.Fitness = meanOf(ind.Objectives)
			ind.Rule.RecordMetrics(metrics)
		})
	}

	p.Wait()
	return outcome
}

// wrapEvalFailure tags an evaluator error with the recoverable
// EvaluationFailed code before it is absorbed into worst-case fitness.
func wrapEvalFailure(err error, ruleID string) error {
	return errors.WithFields(
		errors.Wrap(err, errors.EvaluationFailed, "evaluation failed"),
		errors.Fields{"rule_id": ruleID},
	)
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// markReady flips every surviving rule out of the evolving state once a
// run completes.
func markReady(pop *Population) {
	for _, ind := range pop.Members() {
		ind.Rule.SetStatus(rules.StatusReady)
	}
}
