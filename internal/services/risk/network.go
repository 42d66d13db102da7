package risk

import (
	"math"
	"math/rand"
)

// Default hidden layer widths.
const (
	defaultHidden1 = 6
	defaultHidden2 = 4
)

// Network is a small feed-forward scoring network with two hidden layers
// and a sigmoid output. Weights are plain values: a Network is built once
// from a seed or by mutation and never modified in place.
type Network struct {
	inputs, hidden1, hidden2 int

	w1 [][]float64
	b1 []float64
	w2 [][]float64
	b2 []float64
	w3 []float64
	b3 float64
}

// NewNetwork builds a network with deterministic weights derived from seed.
func NewNetwork(seed int64) *Network {
	rng := rand.New(rand.NewSource(seed))
	n := &Network{
		inputs:  FeatureCount,
		hidden1: defaultHidden1,
		hidden2: defaultHidden2,
	}
	n.w1 = randomMatrix(rng, n.hidden1, n.inputs)
	n.b1 = randomVector(rng, n.hidden1)
	n.w2 = randomMatrix(rng, n.hidden2, n.hidden1)
	n.b2 = randomVector(rng, n.hidden2)
	n.w3 = randomVector(rng, n.hidden2)
	n.b3 = rng.Float64()*2 - 1
	return n
}

// Forward propagates the feature vector and returns the risk score together
// with the confidence derived from activation dispersion: tightly grouped
// activations mean the network is operating in a familiar region.
func (n *Network) Forward(features [FeatureCount]float64) (score, confidence float64) {
	h1 := make([]float64, n.hidden1)
	for i := 0; i < n.hidden1; i++ {
		sum := n.b1[i]
		for j := 0; j < n.inputs; j++ {
			sum += n.w1[i][j] * features[j]
		}
		h1[i] = sigmoid(sum)
	}

	h2 := make([]float64, n.hidden2)
	for i := 0; i < n.hidden2; i++ {
		sum := n.b2[i]
		for j := 0; j < n.hidden1; j++ {
			sum += n.w2[i][j] * h1[j]
		}
		h2[i] = sigmoid(sum)
	}

	out := n.b3
	for i := 0; i < n.hidden2; i++ {
		out += n.w3[i] * h2[i]
	}
	score = sigmoid(out)

	avgStdDev := (stdDev(features[:]) + stdDev(h1) + stdDev(h2)) / 3
	confidence = math.Max(0, 1-2*avgStdDev)

	return score, confidence
}

// Mutate returns a copy with every weight perturbed by at most scale.
func (n *Network) Mutate(rng *rand.Rand, scale float64) *Network {
	m := &Network{
		inputs:  n.inputs,
		hidden1: n.hidden1,
		hidden2: n.hidden2,
		b1:      make([]float64, n.hidden1),
		b2:      make([]float64, n.hidden2),
		w3:      make([]float64, n.hidden2),
	}
	m.w1 = make([][]float64, n.hidden1)
	for i := range n.w1 {
		m.w1[i] = perturbVector(rng, n.w1[i], scale)
		m.b1[i] = perturb(rng, n.b1[i], scale)
	}
	m.w2 = make([][]float64, n.hidden2)
	for i := range n.w2 {
		m.w2[i] = perturbVector(rng, n.w2[i], scale)
		m.b2[i] = perturb(rng, n.b2[i], scale)
	}
	copy(m.w3, perturbVector(rng, n.w3, scale))
	m.b3 = perturb(rng, n.b3, scale)
	return m
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}

func randomMatrix(rng *rand.Rand, rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = randomVector(rng, cols)
	}
	return m
}

func randomVector(rng *rand.Rand, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.Float64()*2 - 1
	}
	return v
}

func perturbVector(rng *rand.Rand, src []float64, scale float64) []float64 {
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = perturb(rng, v, scale)
	}
	return out
}

func perturb(rng *rand.Rand, v, scale float64) float64 {
	return v + (rng.Float64()*2-1)*scale
}
