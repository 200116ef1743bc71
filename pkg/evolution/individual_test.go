package evolution

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triet4p/itapia-sub001/pkg/rules"
)

func growIndividual(t *testing.T, seed int64) *Individual {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	ops := &Operators{
		Pool:             rules.DefaultTradingPool(),
		RootType:         rules.TypeDecisionSignal,
		MaxDepth:         5,
		MaxMutationDepth: 3,
		TerminalProb:     rules.DefaultTerminalProb,
	}
	ind, err := ops.NewIndividual(rng)
	require.NoError(t, err)
	return ind
}

func withObjectives(objectives ...float64) *Individual {
	return &Individual{Objectives: objectives, Rank: -1}
}

func TestDominates(t *testing.T) {
	t.Run("better on all objectives", func(t *testing.T) {
		a := withObjectives(0.9, 0.3)
		b := withObjectives(0.8, 0.2)
		assert.True(t, a.Dominates(b))
		assert.False(t, b.Dominates(a))
	})

	t.Run("trade-off dominates neither way", func(t *testing.T) {
		a := withObjectives(0.8, 0.2)
		b := withObjectives(0.2, 0.8)
		assert.False(t, a.Dominates(b))
		assert.False(t, b.Dominates(a))
	})

	t.Run("equal tuples dominate neither way", func(t *testing.T) {
		a := withObjectives(0.5, 0.5)
		b := withObjectives(0.5, 0.5)
		assert.False(t, a.Dominates(b))
		assert.False(t, b.Dominates(a))
	})

	t.Run("equal on one better on another", func(t *testing.T) {
		a := withObjectives(0.5, 0.6)
		b := withObjectives(0.5, 0.5)
		assert.True(t, a.Dominates(b))
	})

	t.Run("scalar fallback", func(t *testing.T) {
		a := &Individual{Fitness: 1.5}
		b := &Individual{Fitness: 1.0}
		assert.True(t, a.Dominates(b))
		assert.False(t, b.Dominates(a))
	})
}

func TestBetterTieGoesToReceiver(t *testing.T) {
	a := withObjectives(0.5, 0.5)
	b := withObjectives(0.5, 0.5)

	// Both directions claim the receiver: first-sampled-wins.
	assert.True(t, a.Better(b))
	assert.True(t, b.Better(a))
}

func TestBetterPrefersRankThenCrowding(t *testing.T) {
	a := withObjectives(0.8, 0.2)
	b := withObjectives(0.2, 0.8)

	a.Rank, b.Rank = 0, 1
	assert.True(t, a.Better(b))
	assert.False(t, b.Better(a))

	a.Rank, b.Rank = 0, 0
	a.Crowding, b.Crowding = 0.5, 1.5
	assert.True(t, b.Better(a))
	assert.False(t, a.Better(b))
}

func TestIndividualCloneIsIndependent(t *testing.T) {
	ind := growIndividual(t, 7)
	ind.Objectives = []float64{0.1, 0.2}
	ind.Metrics = Metrics{MetricCAGR: 0.05}
	ind.Fitness = 0.15
	ind.Rank = 2

	clone := ind.Clone()

	assert.NotEqual(t, ind.Rule.RuleID, clone.Rule.RuleID)
	assert.Equal(t, rules.StatusEvolving, clone.Rule.Status)
	assert.Equal(t, ind.Fitness, clone.Fitness)
	assert.Equal(t, ind.Objectives, clone.Objectives)
	assert.Equal(t, -1, clone.Rank)

	clone.Objectives[0] = 9
	clone.Metrics[MetricCAGR] = 9
	assert.Equal(t, 0.1, ind.Objectives[0])
	assert.Equal(t, 0.05, ind.Metrics[MetricCAGR])

	// Tree nodes must not be shared either.
	assert.NotSame(t, ind.Rule.Root, clone.Rule.Root)
}
