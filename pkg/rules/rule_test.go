package rules

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triet4p/itapia-sub001/pkg/errors"
)

func buildDecisionRule(t *testing.T, seed int64) *Rule {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	root, err := GrowRoot(rng, 4, DefaultTerminalProb, TypeDecisionSignal, DefaultTradingPool())
	require.NoError(t, err)
	rule, err := NewRule("test-rule", "grown for tests", root)
	require.NoError(t, err)
	return rule
}

func TestNewRule(t *testing.T) {
	rule := buildDecisionRule(t, 1)

	assert.NotEmpty(t, rule.RuleID)
	assert.Equal(t, StatusEvolving, rule.Status)
	assert.Equal(t, TypeDecisionSignal, rule.Purpose())
	assert.False(t, rule.CreatedAt.IsZero())
}

func TestNewRuleRejectsNilRoot(t *testing.T) {
	_, err := NewRule("bad", "", nil)
	require.Error(t, err)
	assert.Equal(t, errors.ConstructionFailed, errors.Code(err))
}

func TestExecute(t *testing.T) {
	rule := buildDecisionRule(t, 2)

	score, err := rule.Execute(testReport())
	require.NoError(t, err)
	assert.False(t, score != score, "score must not be NaN")
}

func TestExecuteDeprecatedShortCircuits(t *testing.T) {
	rule := buildDecisionRule(t, 3)
	rule.SetStatus(StatusDeprecated)

	score, err := rule.Execute(testReport())
	assert.Equal(t, NeutralScore, score)
	require.Error(t, err)
	assert.Equal(t, errors.DeprecatedRuleExecution, errors.Code(err))
}

func TestCloneIsIndependent(t *testing.T) {
	rule := buildDecisionRule(t, 4)
	rule.RecordMetrics(map[string]float64{"cagr": 0.12})

	clone := rule.Clone()

	assert.NotEqual(t, rule.RuleID, clone.RuleID)
	assert.Equal(t, StatusEvolving, clone.Status)
	assert.Nil(t, clone.Metrics)

	// Mutating the clone's tree must not touch the original.
	original, err := rule.Execute(testReport())
	require.NoError(t, err)
	require.NoError(t, clone.Root.ReplaceChild(0, NewConstant(1, clone.Root.ChildTypes[0])))
	after, err := rule.Execute(testReport())
	require.NoError(t, err)
	assert.Equal(t, original, after)
}

func TestRecordMetricsCopies(t *testing.T) {
	rule := buildDecisionRule(t, 5)
	src := map[string]float64{"sortino": 1.5}
	rule.RecordMetrics(src)
	src["sortino"] = -1

	assert.Equal(t, 1.5, rule.Metrics["sortino"])
}
