package ledger

import (
	"context"

	"celora/internal/services/risk"

	"github.com/shopspring/decimal"
)

// PostRequest describes a transaction to be appended and posted.
type PostRequest struct {
	CardID           uint
	UserID           uint
	Type             string
	Amount           decimal.Decimal
	Currency         string
	Description      string
	MerchantName     string
	MerchantCategory string
	Metadata         map[string]interface{}

	// Raw event fields feeding risk feature extraction.
	Source       string
	Destination  string
	Fee          decimal.Decimal
	Confirmation float64
}

// ReconcileResult reports the outcome of a balance reconciliation.
type ReconcileResult struct {
	Expected decimal.Decimal `json:"expected"`
	Cached   decimal.Decimal `json:"cached"`
	Delta    decimal.Decimal `json:"delta"`
	Epsilon  decimal.Decimal `json:"epsilon"`
	InSync   bool            `json:"in_sync"`
}

// Config holds ledger policy limits.
type Config struct {
	// TopupCeiling caps a single top-up; zero means use the default.
	TopupCeiling decimal.Decimal
}

// Notifier emits best-effort security and operational alerts. Failure to
// emit never rolls back a transaction decision.
type Notifier interface {
	SecurityAlert(ctx context.Context, userID uint, txRef string, assessment risk.Assessment)
	ReconciliationFault(ctx context.Context, cardID uint, delta decimal.Decimal)
}

// Auditor records state changes after they have durably committed.
type Auditor interface {
	Record(ctx context.Context, actorID uint, entityType, entityID, action string, before, after, metadata map[string]interface{})
}

// StatusEscalator suspends a card when risk scoring demands it. Implemented
// by the card service; wired after construction to avoid a dependency loop.
type StatusEscalator interface {
	SuspendForRisk(ctx context.Context, cardID uint, reason string) error
}
