package evolution

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/triet4p/itapia-sub001/pkg/errors"
)

func TestGenerateWeightVectorsTwoObjectives(t *testing.T) {
	vectors, err := GenerateWeightVectors(2, 2)
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	got := make([][]float64, len(vectors))
	for i, v := range vectors {
		got[i] = v.Weights
	}
	assert.ElementsMatch(t, [][]float64{
		{0, 1},
		{0.5, 0.5},
		{1, 0},
	}, got)
}

func TestGenerateWeightVectorsCountMatchesFormula(t *testing.T) {
	cases := []struct{ objs, divisions int }{
		{2, 12},
		{3, 6},
		{4, 4},
	}
	for _, tc := range cases {
		vectors, err := GenerateWeightVectors(tc.objs, tc.divisions)
		require.NoError(t, err)
		assert.Len(t, vectors, combin.Binomial(tc.divisions+tc.objs-1, tc.objs-1))

		for _, v := range vectors {
			sum := 0.0
			for _, w := range v.Weights {
				require.GreaterOrEqual(t, w, 0.0)
				sum += w
			}
			assert.InDelta(t, 1.0, sum, 1e-12)
		}
	}
}

func TestGenerateWeightVectorsRejections(t *testing.T) {
	_, err := GenerateWeightVectors(1, 5)
	require.Error(t, err)
	assert.Equal(t, errors.ConstructionFailed, errors.Code(err))

	_, err = GenerateWeightVectors(3, 0)
	require.Error(t, err)
	assert.Equal(t, errors.ConstructionFailed, errors.Code(err))
}

func TestComputeNeighborhoods(t *testing.T) {
	vectors, err := GenerateWeightVectors(2, 4)
	require.NoError(t, err)
	require.Len(t, vectors, 5) // (0,1) (0.25,0.75) ... (1,0) in lattice order

	require.NoError(t, ComputeNeighborhoods(vectors, 2))

	for i, v := range vectors {
		require.Len(t, v.Neighbors, 2)
		for _, n := range v.Neighbors {
			assert.NotEqual(t, i, n, "a vector must not be its own neighbor")
		}
	}

	// The extreme vector's nearest neighbors are the two closest lattice
	// points toward the interior.
	var extreme *WeightVector
	for _, v := range vectors {
		if v.Weights[0] == 0 {
			extreme = v
		}
	}
	require.NotNil(t, extreme)

	distances := make([]float64, len(extreme.Neighbors))
	for k, n := range extreme.Neighbors {
		d := 0.0
		for j := range extreme.Weights {
			diff := extreme.Weights[j] - vectors[n].Weights[j]
			d += diff * diff
		}
		distances[k] = math.Sqrt(d)
	}
	assert.InDelta(t, math.Sqrt(2*0.25*0.25), distances[0], 1e-12)
	assert.InDelta(t, math.Sqrt(2*0.5*0.5), distances[1], 1e-12)
}

func TestComputeNeighborhoodsRejectsBadSize(t *testing.T) {
	vectors, err := GenerateWeightVectors(2, 2)
	require.NoError(t, err)

	require.Error(t, ComputeNeighborhoods(vectors, 0))
	require.Error(t, ComputeNeighborhoods(vectors, len(vectors)))
}

func TestReferencePointUpdate(t *testing.T) {
	ref := NewReferencePoint(3)
	for _, v := range ref.Best {
		assert.True(t, math.IsInf(v, -1))
	}

	ref.Update([]float64{0.5, -1, 2})
	ref.Update([]float64{0.3, 0, 1})
	assert.Equal(t, []float64{0.5, 0, 2}, ref.Best)
}

func TestTchebycheffLowerIsBetter(t *testing.T) {
	ref := &ReferencePoint{Best: []float64{1, 1}}
	weights := []float64{0.5, 0.5}

	near := Tchebycheff([]float64{0.9, 0.9}, weights, ref)
	far := Tchebycheff([]float64{0.2, 0.9}, weights, ref)
	assert.Less(t, near, far)

	// At the reference point the scalarization bottoms out at zero.
	assert.InDelta(t, 0.0, Tchebycheff([]float64{1, 1}, weights, ref), 1e-12)
}

func TestTchebycheffFloorsZeroWeights(t *testing.T) {
	ref := &ReferencePoint{Best: []float64{1, 1}}
	weights := []float64{1, 0}

	// The second objective still registers: a huge gap there must matter
	// even under a zero weight.
	ok := Tchebycheff([]float64{0.9, 0.9}, weights, ref)
	awful := Tchebycheff([]float64{0.9, -1e9}, weights, ref)
	assert.Greater(t, awful, ok)
}
