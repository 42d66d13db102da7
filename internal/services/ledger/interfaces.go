package ledger

import (
	"context"
	"time"

	"celora/internal/models"
	"celora/internal/services/risk"

	"github.com/shopspring/decimal"
)

// Service is the ledger engine: balance arithmetic over the transaction
// log, policy validation, reconciliation, and risk-gated posting.
type Service interface {
	// Pure balance arithmetic
	ComputeBalance(txs []models.Transaction) decimal.Decimal
	ValidateTopup(cardStatus string, amount decimal.Decimal) error
	Reconcile(cached decimal.Decimal, currency string, txs []models.Transaction) ReconcileResult

	// Posting pipeline
	Post(ctx context.Context, req PostRequest) (*models.Transaction, *risk.Assessment, error)
	Reverse(ctx context.Context, transactionID, actorID uint, reason string) (*models.Transaction, error)

	// Operational reconciliation against the stored log
	ReconcileCard(ctx context.Context, cardID uint) (ReconcileResult, error)

	SetEscalator(esc StatusEscalator)
}

// Scorer is the risk engine surface the ledger depends on.
type Scorer interface {
	ScoreTransaction(ev risk.Event, now time.Time) risk.Assessment
}
