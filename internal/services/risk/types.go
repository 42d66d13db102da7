package risk

import (
	"time"

	"github.com/shopspring/decimal"
)

// Action is the engine's recommendation for a transaction.
type Action string

const (
	ActionAllow  Action = "allow"
	ActionReview Action = "review"
	ActionBlock  Action = "block"
)

// Event is a raw transaction event before feature extraction.
type Event struct {
	Amount      decimal.Decimal
	Fee         decimal.Decimal
	Timestamp   time.Time
	Source      string
	Destination string
	// Confirmation confidence reported by the upstream channel, in [0,1].
	Confirmation float64
}

// Assessment is the result of scoring a transaction event.
type Assessment struct {
	Score          float64  `json:"risk_score"`
	Confidence     float64  `json:"confidence"`
	Action         Action   `json:"action"`
	Reasons        []string `json:"reasons"`
	NetworkVersion int      `json:"network_version"`
}

// ScoringConfig is the versioned scoring configuration. The evolution batch
// job produces a new version and swaps it in whole; the hot path only reads.
type ScoringConfig struct {
	Name    string
	Version int
	Network *Network
}

// EngineConfig carries tunables for the scoring engine.
type EngineConfig struct {
	// Score above which the signature integrity check runs.
	SignatureCheckThreshold float64
}

// DefaultEngineConfig returns the standard engine tunables.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		SignatureCheckThreshold: 0.7,
	}
}
