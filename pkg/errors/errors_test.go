package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ConstructionFailed, "no terminal for required type")
	require.Error(t, err)
	assert.Equal(t, "no terminal for required type", err.Error())

	var e *Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, ConstructionFailed, e.Code())
}

func TestWrap(t *testing.T) {
	base := fmt.Errorf("backtester exploded")
	err := Wrap(base, EvaluationFailed, "evaluation failed")

	assert.Contains(t, err.Error(), "evaluation failed")
	assert.Contains(t, err.Error(), "backtester exploded")
	assert.Equal(t, base, stderrors.Unwrap(err))

	assert.Nil(t, Wrap(nil, EvaluationFailed, "ignored"))
}

func TestWithFields(t *testing.T) {
	err := New(IncompatibleCrossover, "no common semantic type")
	err = WithFields(err, Fields{"parent_a": "r1", "parent_b": "r2"})

	var e *Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, IncompatibleCrossover, e.Code())
	assert.Equal(t, "r1", e.Fields()["parent_a"])
	assert.Contains(t, err.Error(), "parent_a=r1")

	// Fields on a foreign error keep the message but reset the code.
	foreign := WithFields(fmt.Errorf("boom"), Fields{"k": 1})
	require.True(t, stderrors.As(foreign, &e))
	assert.Equal(t, Unknown, e.Code())
}

func TestIs(t *testing.T) {
	err := New(DeprecatedRuleExecution, "rule is deprecated")
	assert.True(t, stderrors.Is(err, New(DeprecatedRuleExecution, "other message")))
	assert.False(t, stderrors.Is(err, New(EvaluationFailed, "other code")))
}

func TestCode(t *testing.T) {
	assert.Equal(t, ConstructionFailed, Code(New(ConstructionFailed, "x")))
	assert.Equal(t, Unknown, Code(fmt.Errorf("plain")))
}

func TestCheckContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	assert.NoError(t, CheckContext(ctx, "evolve"))

	cancel()
	err := CheckContext(ctx, "evolve")
	require.Error(t, err)
	assert.Equal(t, Canceled, Code(err))
	assert.Contains(t, err.Error(), "evolve canceled")
}
