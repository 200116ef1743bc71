package evolution

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triet4p/itapia-sub001/pkg/errors"
	"github.com/triet4p/itapia-sub001/pkg/rules"
)

func TestEvaluateAllAbsorbsFailuresAsWorstCase(t *testing.T) {
	extractor, err := NewMultiObjectiveExtractor(DefaultObjectiveSpecs())
	require.NoError(t, err)

	evaluator := EvaluatorFunc(func(ctx context.Context, rule *rules.Rule) (Metrics, error) {
		return nil, stderrors.New("backtest blew up")
	})

	individuals := []*Individual{growIndividual(t, 1), growIndividual(t, 2)}
	outcome := evaluateAll(context.Background(), evaluator, extractor, individuals, 2)

	assert.Equal(t, 2, outcome.evaluations)
	assert.Equal(t, 2, outcome.failures)
	for _, ind := range individuals {
		assert.Nil(t, ind.Metrics)
		assert.Equal(t, extractor.Worst(), ind.Objectives)
	}
}

func TestWrapEvalFailureCarriesCode(t *testing.T) {
	wrapped := wrapEvalFailure(stderrors.New("backtest blew up"), "rule-123")

	assert.Equal(t, errors.EvaluationFailed, errors.Code(wrapped))
	assert.Contains(t, wrapped.Error(), "backtest blew up")
	assert.Contains(t, wrapped.Error(), "rule-123")
}
