package risk

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetworkDeterministic(t *testing.T) {
	a := NewNetwork(42)
	b := NewNetwork(42)
	c := NewNetwork(43)

	features := [FeatureCount]float64{0.5, 0.9, 0.3, 0.1, 0.0, 1.0, 0.5, 0.2}

	scoreA, confA := a.Forward(features)
	scoreB, confB := b.Forward(features)
	assert.Equal(t, scoreA, scoreB)
	assert.Equal(t, confA, confB)

	// Repeated calls on the same network never drift.
	for i := 0; i < 10; i++ {
		s, cf := a.Forward(features)
		assert.Equal(t, scoreA, s)
		assert.Equal(t, confA, cf)
	}

	scoreC, _ := c.Forward(features)
	assert.NotEqual(t, scoreA, scoreC)
}

func TestNetworkOutputBounds(t *testing.T) {
	n := NewNetwork(7)
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 200; i++ {
		var f [FeatureCount]float64
		for j := range f {
			f[j] = rng.Float64()
		}
		score, confidence := n.Forward(f)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
		assert.GreaterOrEqual(t, confidence, 0.0)
		assert.LessOrEqual(t, confidence, 1.0)
	}
}

func TestNetworkConfidenceDropsWithDispersion(t *testing.T) {
	n := NewNetwork(7)

	uniform := [FeatureCount]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	spread := [FeatureCount]float64{0, 1, 0, 1, 0, 1, 0, 1}

	_, confUniform := n.Forward(uniform)
	_, confSpread := n.Forward(spread)
	assert.Greater(t, confUniform, confSpread)
}

func TestMutateLeavesOriginalUntouched(t *testing.T) {
	base := NewNetwork(42)
	features := [FeatureCount]float64{0.5, 0.9, 0.3, 0.1, 0.0, 1.0, 0.5, 0.2}
	before, _ := base.Forward(features)

	rng := rand.New(rand.NewSource(1))
	mutant := base.Mutate(rng, 0.1)

	after, _ := base.Forward(features)
	assert.Equal(t, before, after)

	mutated, _ := mutant.Forward(features)
	assert.NotEqual(t, before, mutated)
}
