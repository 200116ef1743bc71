package evolution

import (
	"math/rand"
)

// AdaptiveOperatorManager reallocates breeding effort toward operator
// variants whose offspring keep getting accepted into the next generation.
// It is the only cross-generation mutable state in the engine and is owned
// by the engine instance that created it; nothing here is package-global.
type AdaptiveOperatorManager struct {
	variants   []OperatorVariant
	floor      float64
	windowSize int

	outcomes map[OperatorVariant][]bool
}

// NewAdaptiveOperatorManager tracks the given variants. floor is the
// minimum selection probability kept for every variant so exploration never
// stops; windowSize bounds how much history influences credit.
func NewAdaptiveOperatorManager(variants []OperatorVariant, floor float64, windowSize int) *AdaptiveOperatorManager {
	outcomes := make(map[OperatorVariant][]bool, len(variants))
	for _, v := range variants {
		outcomes[v] = nil
	}
	return &AdaptiveOperatorManager{
		variants:   variants,
		floor:      floor,
		windowSize: windowSize,
		outcomes:   outcomes,
	}
}

// Record notes whether the given variant's latest offspring was accepted.
func (m *AdaptiveOperatorManager) Record(variant OperatorVariant, accepted bool) {
	window, ok := m.outcomes[variant]
	if !ok {
		return
	}
	window = append(window, accepted)
	if len(window) > m.windowSize {
		window = window[len(window)-m.windowSize:]
	}
	m.outcomes[variant] = window
}

// credit estimates a variant's recent success rate with add-one smoothing,
// so unused variants start at 0.5 rather than zero.
func (m *AdaptiveOperatorManager) credit(variant OperatorVariant) float64 {
	window := m.outcomes[variant]
	successes := 0
	for _, accepted := range window {
		if accepted {
			successes++
		}
	}
	return float64(successes+1) / float64(len(window)+2)
}

// Probabilities returns the current selection distribution: proportional to
// credit, then floored and renormalized.
func (m *AdaptiveOperatorManager) Probabilities() map[OperatorVariant]float64 {
	total := 0.0
	raw := make(map[OperatorVariant]float64, len(m.variants))
	for _, v := range m.variants {
		raw[v] = m.credit(v)
		total += raw[v]
	}

	probs := make(map[OperatorVariant]float64, len(m.variants))
	adjustedTotal := 0.0
	for _, v := range m.variants {
		p := raw[v] / total
		if p < m.floor {
			p = m.floor
		}
		probs[v] = p
		adjustedTotal += p
	}
	for _, v := range m.variants {
		probs[v] /= adjustedTotal
	}
	return probs
}

// Pick samples a variant with probability proportional to current credit.
// Iteration follows the fixed variant ordering so a seeded rng stream
// reproduces the same choices.
func (m *AdaptiveOperatorManager) Pick(rng *rand.Rand) OperatorVariant {
	probs := m.Probabilities()
	target := rng.Float64()

	cumulative := 0.0
	for _, v := range m.variants {
		cumulative += probs[v]
		if target < cumulative {
			return v
		}
	}
	return m.variants[len(m.variants)-1]
}
