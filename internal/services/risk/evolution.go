package risk

import (
	"math/rand"
	"sync"
)

// Evolution tunables. The search is bounded and best-effort: it runs in a
// batch job, never on the scoring path.
const (
	historyWindow      = 10
	recentSamples      = 5
	degradationRatio   = 0.95
	mutationCandidates = 8
	mutationScale      = 0.1
)

// PerformanceHistory tracks rolling performance samples per named network.
// It is explicit injected state, not a package singleton, so the engine
// stays testable in isolation. Samples are process-local; instances drift
// apart, which is acceptable because evolution is advisory.
type PerformanceHistory struct {
	mu      sync.Mutex
	samples map[string][]float64
}

func NewPerformanceHistory() *PerformanceHistory {
	return &PerformanceHistory{samples: make(map[string][]float64)}
}

// Record appends a performance sample for the named network, keeping only
// the rolling window.
func (h *PerformanceHistory) Record(name string, value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := append(h.samples[name], value)
	if len(s) > historyWindow {
		s = s[len(s)-historyWindow:]
	}
	h.samples[name] = s
}

// Degraded reports whether the recent 5-sample average sits at least 5%
// below the prior 5-sample average. It needs a full window to decide.
func (h *PerformanceHistory) Degraded(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.samples[name]
	if len(s) < 2*recentSamples {
		return false
	}
	prior := average(s[len(s)-2*recentSamples : len(s)-recentSamples])
	recent := average(s[len(s)-recentSamples:])
	return recent <= prior*degradationRatio
}

func average(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Evolver runs a bounded mutation search over weight perturbations.
type Evolver struct {
	rng *rand.Rand
}

func NewEvolver(seed int64) *Evolver {
	return &Evolver{rng: rand.New(rand.NewSource(seed))}
}

// Search evaluates a fixed number of perturbed candidates against fitness
// and returns the best one, or nil when no candidate beats the base network.
func (e *Evolver) Search(base *Network, fitness func(*Network) float64) *Network {
	best := base
	bestScore := fitness(base)
	improved := false

	for i := 0; i < mutationCandidates; i++ {
		candidate := base.Mutate(e.rng, mutationScale)
		if score := fitness(candidate); score > bestScore {
			best, bestScore = candidate, score
			improved = true
		}
	}

	if !improved {
		return nil
	}
	return best
}
