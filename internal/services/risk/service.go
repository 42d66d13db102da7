package risk

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"celora/internal/logger"
)

// Action thresholds. Comparisons are strict: a score sitting exactly on a
// boundary stays in the lower band.
const (
	blockScoreThreshold       = 0.8
	blockConfidenceThreshold  = 0.7
	reviewScoreThreshold      = 0.5
	reviewConfidenceThreshold = 0.6
)

// Reason trigger levels for the audit trail.
const (
	largeAmountFeature  = 0.6
	recentTimingFeature = 0.9
	highEntropyFeature  = 0.8
	highFeeFeature      = 0.5
	elevatedScore       = 0.5
)

// Engine scores transaction events. Scoring is stateless per call: the
// network weights live in a versioned config that the evolution batch job
// swaps atomically, so the hot path never sees partial updates.
type Engine struct {
	cfg     atomic.Pointer[ScoringConfig]
	tuning  EngineConfig
	signer  Signer
	history *PerformanceHistory
	evolver *Evolver
	log     *logger.Logger
}

// NewEngine creates a scoring engine.
func NewEngine(cfg ScoringConfig, tuning EngineConfig, signer Signer, history *PerformanceHistory, log *logger.Logger) *Engine {
	if cfg.Network == nil {
		panic("scoring network is required")
	}
	if signer == nil {
		panic("signer is required")
	}
	if history == nil {
		history = NewPerformanceHistory()
	}
	if log == nil {
		log = logger.NewNop()
	}

	e := &Engine{
		tuning:  tuning,
		signer:  signer,
		history: history,
		evolver: NewEvolver(time.Now().UnixNano()),
		log:     log,
	}
	e.cfg.Store(&cfg)
	return e
}

// ScoreFeatures runs the feature vector through the network and derives the
// recommended action. Pure and deterministic for fixed weights.
func (e *Engine) ScoreFeatures(features [FeatureCount]float64) Assessment {
	cfg := e.cfg.Load()
	score, confidence := cfg.Network.Forward(features)
	return Assessment{
		Score:          score,
		Confidence:     confidence,
		Action:         determineAction(score, confidence),
		Reasons:        generateReasons(score, features),
		NetworkVersion: cfg.Version,
	}
}

// ScoreTransaction scores a raw event. Above the signature threshold it also
// constructs and verifies a detached signature over the serialized event;
// cryptographic tamper suspicion trumps the statistical score.
func (e *Engine) ScoreTransaction(ev Event, now time.Time) Assessment {
	assessment := e.ScoreFeatures(ExtractFeatures(ev, now))

	if assessment.Score > e.tuning.SignatureCheckThreshold {
		if !e.verifyIntegrity(ev) {
			return Assessment{
				Score:          0.95,
				Confidence:     0.99,
				Action:         ActionBlock,
				Reasons:        []string{"transaction integrity signature failed verification"},
				NetworkVersion: assessment.NetworkVersion,
			}
		}
	}

	return assessment
}

func (e *Engine) verifyIntegrity(ev Event) bool {
	payload, err := json.Marshal(struct {
		Amount      string `json:"amount"`
		Fee         string `json:"fee"`
		Timestamp   int64  `json:"timestamp"`
		Source      string `json:"source"`
		Destination string `json:"destination"`
	}{
		Amount:      ev.Amount.String(),
		Fee:         ev.Fee.String(),
		Timestamp:   ev.Timestamp.Unix(),
		Source:      ev.Source,
		Destination: ev.Destination,
	})
	if err != nil {
		return false
	}

	sig, err := e.signer.Sign(payload)
	if err != nil {
		e.log.Warnw("integrity signature construction failed", "error", err)
		return false
	}
	return e.signer.Verify(payload, sig)
}

// RecordPerformance feeds the rolling history behind the evolution hook.
func (e *Engine) RecordPerformance(value float64) {
	cfg := e.cfg.Load()
	e.history.Record(cfg.Name, value)
}

// Evolve runs the bounded mutation search when recent performance has
// degraded, swapping in a new network version on success. The scoring path
// is never blocked: a panicking fitness function is recovered and surfaced
// as ErrEvolutionFailed for the caller to log.
func (e *Engine) Evolve(fitness func(*Network) float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorw("network evolution panicked", "panic", r)
			err = fmt.Errorf("%w: panic: %v", ErrEvolutionFailed, r)
		}
	}()

	cfg := e.cfg.Load()
	if !e.history.Degraded(cfg.Name) {
		return nil
	}

	candidate := e.evolver.Search(cfg.Network, fitness)
	if candidate == nil {
		e.log.Infow("network evolution found no better candidate", "network", cfg.Name, "version", cfg.Version)
		return nil
	}

	next := &ScoringConfig{
		Name:    cfg.Name,
		Version: cfg.Version + 1,
		Network: candidate,
	}
	e.cfg.Store(next)
	e.log.Infow("network evolved", "network", next.Name, "version", next.Version)
	return nil
}

// determineAction maps score and confidence to a recommendation.
func determineAction(score, confidence float64) Action {
	switch {
	case score > blockScoreThreshold && confidence > blockConfidenceThreshold:
		return ActionBlock
	case score > reviewScoreThreshold && confidence > reviewConfidenceThreshold:
		return ActionReview
	default:
		return ActionAllow
	}
}

// generateReasons produces human readable triggers for audit and
// notification. Never empty.
func generateReasons(score float64, f [FeatureCount]float64) []string {
	var reasons []string
	if f[featAmount] > largeAmountFeature {
		reasons = append(reasons, "unusually large transaction amount")
	}
	if f[featRecency] > recentTimingFeature {
		reasons = append(reasons, "transaction submitted within moments of event time")
	}
	if f[featAddressEntropy] > highEntropyFeature {
		reasons = append(reasons, "high address entropy")
	}
	if f[featFee] > highFeeFeature && score > elevatedScore {
		reasons = append(reasons, "elevated fee combined with elevated risk score")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "pattern within normal parameters")
	}
	return reasons
}
