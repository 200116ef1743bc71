package evolution

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triet4p/itapia-sub001/pkg/errors"
)

func healthyMetrics() Metrics {
	return Metrics{
		MetricCAGR:        0.25,
		MetricSortino:     1.8,
		MetricWinRate:     0.6,
		MetricMaxDrawdown: 0.2,
		MetricTotalTrades: 42,
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, 0.5, Clip(0.5, 0, 1))
	assert.Equal(t, 0.0, Clip(-2, 0, 1))
	assert.Equal(t, 1.0, Clip(7, 0, 1))
	// Degenerate range disables clipping.
	assert.Equal(t, 7.0, Clip(7, 1, 1))
	assert.Equal(t, 7.0, Clip(7, 3, 1))
}

func TestMultiObjectiveExtract(t *testing.T) {
	extractor, err := NewMultiObjectiveExtractor(DefaultObjectiveSpecs())
	require.NoError(t, err)
	require.Equal(t, 4, extractor.NumObjectives())

	got := extractor.Extract(healthyMetrics())
	assert.Equal(t, []float64{0.25, 1.8, 0.6, 0.8}, got)
}

func TestMultiObjectiveExtractClipsOutliers(t *testing.T) {
	extractor, err := NewMultiObjectiveExtractor(DefaultObjectiveSpecs())
	require.NoError(t, err)

	m := healthyMetrics()
	m[MetricCAGR] = 12.0   // one lucky backtest
	m[MetricSortino] = -40 // catastrophic
	m[MetricMaxDrawdown] = 1.5

	got := extractor.Extract(m)
	assert.Equal(t, 3.0, got[0])
	assert.Equal(t, -5.0, got[1])
	assert.Equal(t, 0.0, got[3]) // 1 - 1.5 clipped up to the floor
}

func TestMultiObjectiveExtractDegenerate(t *testing.T) {
	extractor, err := NewMultiObjectiveExtractor(DefaultObjectiveSpecs())
	require.NoError(t, err)

	worst := []float64{-1, -5, 0, 0}
	assert.Equal(t, worst, extractor.Extract(nil))

	m := healthyMetrics()
	m[MetricTotalTrades] = 0
	assert.Equal(t, worst, extractor.Extract(m))
	assert.Equal(t, worst, extractor.Worst())
}

func TestMultiObjectiveExtractNonFinitePinsToWorst(t *testing.T) {
	extractor, err := NewMultiObjectiveExtractor(DefaultObjectiveSpecs())
	require.NoError(t, err)

	worst := extractor.Worst()

	m := healthyMetrics()
	m[MetricCAGR] = math.NaN()
	m[MetricSortino] = math.NaN()
	assert.Equal(t, worst, extractor.Extract(m))

	m = healthyMetrics()
	m[MetricSortino] = math.Inf(1)
	assert.Equal(t, worst, extractor.Extract(m))

	// A NaN slot would never read as "worse" under Pareto comparison, so a
	// poisoned tuple must not be allowed to outrank an honest one.
	poisoned := healthyMetrics()
	poisoned[MetricCAGR] = math.NaN()
	a := withObjectives(extractor.Extract(poisoned)...)
	b := withObjectives(worst...)
	assert.False(t, a.Dominates(b))
}

func TestNewMultiObjectiveExtractorRejectsEmpty(t *testing.T) {
	_, err := NewMultiObjectiveExtractor(nil)
	require.Error(t, err)
	assert.Equal(t, errors.ConstructionFailed, errors.Code(err))
}

func TestSingleObjectiveExtractor(t *testing.T) {
	specs := DefaultObjectiveSpecs()

	extractor, err := NewSingleObjectiveExtractor(specs, []float64{2, 0, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0, 0.25, 0.25}, extractor.Weights())

	got := extractor.Extract(healthyMetrics())
	assert.InDelta(t, 0.5*0.25+0.25*0.6+0.25*0.8, got, 1e-12)

	assert.InDelta(t, 0.5*-1+0.25*0+0.25*0, extractor.Worst(), 1e-12)
}

func TestNewSingleObjectiveExtractorRejections(t *testing.T) {
	specs := DefaultObjectiveSpecs()

	cases := []struct {
		name    string
		weights []float64
	}{
		{"wrong length", []float64{1, 1}},
		{"negative weight", []float64{1, -1, 1, 1}},
		{"all zero", []float64{0, 0, 0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSingleObjectiveExtractor(specs, tc.weights)
			require.Error(t, err)
			assert.Equal(t, errors.ConstructionFailed, errors.Code(err))
		})
	}
}
