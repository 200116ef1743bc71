package evolution

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triet4p/itapia-sub001/pkg/rules"
)

func testOperators() *Operators {
	return &Operators{
		Pool:             rules.DefaultTradingPool(),
		RootType:         rules.TypeDecisionSignal,
		MaxDepth:         5,
		MaxMutationDepth: 3,
		TerminalProb:     rules.DefaultTerminalProb,
	}
}

func treeJSON(t *testing.T, ind *Individual) string {
	t.Helper()
	data, err := json.Marshal(ind.Rule.ToEntity().Root)
	require.NoError(t, err)
	return string(data)
}

func TestNewIndividualGrowsConfiguredType(t *testing.T) {
	ops := testOperators()
	rng := rand.New(rand.NewSource(11))

	ind, err := ops.NewIndividual(rng)
	require.NoError(t, err)
	assert.Equal(t, rules.TypeDecisionSignal, ind.Rule.Purpose())
	assert.Equal(t, rules.StatusEvolving, ind.Rule.Status)
	require.NoError(t, rules.ValidateTree(ind.Rule.Root))
	assert.LessOrEqual(t, rules.Depth(ind.Rule.Root), ops.MaxDepth)
}

func TestTournamentSelectPrefersFitter(t *testing.T) {
	pop := NewPopulation(rules.TypeDecisionSignal, 4)
	for i, fitness := range []float64{0.1, 0.9, 0.3, 0.5} {
		ind := growIndividual(t, int64(i+1))
		ind.Fitness = fitness
		require.NoError(t, pop.Add(ind))
	}

	// Sampling is with replacement, so even k=4 over 4 members reaches the
	// fittest only with probability 1-(3/4)^4 (about 68%) per tournament —
	// but whenever it is sampled it must win. Across many draws it has to
	// take a clear majority.
	rng := rand.New(rand.NewSource(3))
	wins := 0
	for i := 0; i < 100; i++ {
		if TournamentSelect(rng, pop, 4).Fitness == 0.9 {
			wins++
		}
	}
	assert.Greater(t, wins, 55)
}

func TestTournamentSelectDeterministic(t *testing.T) {
	pop := NewPopulation(rules.TypeDecisionSignal, 4)
	for i := 0; i < 4; i++ {
		ind := growIndividual(t, int64(i+1))
		ind.Fitness = float64(i)
		require.NoError(t, pop.Add(ind))
	}

	a := rand.New(rand.NewSource(42))
	b := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		assert.Same(t, TournamentSelect(a, pop, 3), TournamentSelect(b, pop, 3))
	}
}

func TestCrossoverPreservesTypeSafetyAndParents(t *testing.T) {
	ops := testOperators()

	for seed := int64(0); seed < 100; seed++ {
		rng := rand.New(rand.NewSource(seed))
		parentA, err := ops.NewIndividual(rng)
		require.NoError(t, err)
		parentB, err := ops.NewIndividual(rng)
		require.NoError(t, err)

		beforeA := treeJSON(t, parentA)
		beforeB := treeJSON(t, parentB)

		variant := CrossoverVariants[seed%2]
		childA, childB, err := ops.Crossover(rng, variant, parentA, parentB)
		if err != nil {
			continue // incompatible pairing, checked separately
		}

		require.NoError(t, rules.ValidateTree(childA.Rule.Root), "seed %d", seed)
		require.NoError(t, rules.ValidateTree(childB.Rule.Root), "seed %d", seed)
		assert.Equal(t, rules.TypeDecisionSignal, childA.Rule.Purpose())
		assert.Equal(t, rules.TypeDecisionSignal, childB.Rule.Purpose())

		// Parents are untouched: offspring are built from deep copies.
		assert.Equal(t, beforeA, treeJSON(t, parentA), "seed %d", seed)
		assert.Equal(t, beforeB, treeJSON(t, parentB), "seed %d", seed)
	}
}

func TestCrossoverDeterministic(t *testing.T) {
	ops := testOperators()

	build := func() (string, string) {
		rng := rand.New(rand.NewSource(77))
		parentA, err := ops.NewIndividual(rng)
		require.NoError(t, err)
		parentB, err := ops.NewIndividual(rng)
		require.NoError(t, err)
		childA, childB, err := ops.Crossover(rng, VariantSubtreeCrossover, parentA, parentB)
		require.NoError(t, err)
		return treeJSON(t, childA), treeJSON(t, childB)
	}

	a1, b1 := build()
	a2, b2 := build()
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
}

func TestMutationRespectsDepthBound(t *testing.T) {
	ops := testOperators()
	rng := rand.New(rand.NewSource(5))

	for i := 0; i < 50; i++ {
		parent, err := ops.NewIndividual(rng)
		require.NoError(t, err)
		parentDepth := rules.Depth(parent.Rule.Root)
		before := treeJSON(t, parent)

		variant := MutationVariants[i%2]
		child, err := ops.Mutate(rng, variant, parent)
		require.NoError(t, err)

		require.NoError(t, rules.ValidateTree(child.Rule.Root))
		assert.Equal(t, rules.TypeDecisionSignal, child.Rule.Purpose())
		// A mutated subtree hangs off an existing position, so the worst
		// case is the parent's depth plus the regrown subtree.
		assert.LessOrEqual(t, rules.Depth(child.Rule.Root), parentDepth+ops.MaxMutationDepth)

		assert.Equal(t, before, treeJSON(t, parent), "parent mutated in place")
	}
}

func TestPointMutationSwapsSingleLeaf(t *testing.T) {
	ops := testOperators()
	rng := rand.New(rand.NewSource(9))

	parent, err := ops.NewIndividual(rng)
	require.NoError(t, err)

	child, err := ops.Mutate(rng, VariantPointMutation, parent)
	require.NoError(t, err)

	// Point mutation never changes the tree's node count.
	assert.Equal(t, rules.CountNodes(parent.Rule.Root), rules.CountNodes(child.Rule.Root))
}
