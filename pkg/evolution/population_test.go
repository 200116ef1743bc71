package evolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triet4p/itapia-sub001/pkg/errors"
	"github.com/triet4p/itapia-sub001/pkg/rules"
)

func TestPopulationAddEnforcesCapacity(t *testing.T) {
	pop := NewPopulation(rules.TypeDecisionSignal, 2)

	require.NoError(t, pop.Add(growIndividual(t, 1)))
	require.NoError(t, pop.Add(growIndividual(t, 2)))
	assert.Equal(t, 2, pop.Len())

	err := pop.Add(growIndividual(t, 3))
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.Code(err))
}

func TestPopulationAddEnforcesKind(t *testing.T) {
	pop := NewPopulation(rules.TypeRiskLevel, 4)

	err := pop.Add(growIndividual(t, 1))
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.Code(err))
}

func TestPopulationReplace(t *testing.T) {
	pop := NewPopulation(rules.TypeDecisionSignal, 3)
	require.NoError(t, pop.Add(growIndividual(t, 1)))

	next := []*Individual{growIndividual(t, 2), growIndividual(t, 3)}
	require.NoError(t, pop.Replace(next, 5))
	assert.Equal(t, 2, pop.Len())
	assert.Equal(t, 5, pop.Generation)

	tooMany := []*Individual{
		growIndividual(t, 4), growIndividual(t, 5),
		growIndividual(t, 6), growIndividual(t, 7),
	}
	err := pop.Replace(tooMany, 6)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.Code(err))
}

func TestPopulationBest(t *testing.T) {
	pop := NewPopulation(rules.TypeDecisionSignal, 3)
	assert.Nil(t, pop.Best())

	low := growIndividual(t, 1)
	low.Fitness = 0.2
	high := growIndividual(t, 2)
	high.Fitness = 0.9

	require.NoError(t, pop.Add(low))
	require.NoError(t, pop.Add(high))
	assert.Same(t, high, pop.Best())
}
