// Package notification emits best-effort operational alerts. Alert failure
// never affects the outcome of the operation that raised it.
package notification

import (
	"context"

	"celora/internal/logger"
	"celora/internal/services/risk"

	"github.com/shopspring/decimal"
)

// Service delivers alerts through structured logging. A delivery channel
// (email, webhook, pager) can be layered behind the same interface later.
type Service struct {
	log *logger.Logger
}

func NewService(log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{log: log}
}

// SecurityAlert reports a transaction held or blocked by risk scoring.
func (s *Service) SecurityAlert(_ context.Context, userID uint, txRef string, assessment risk.Assessment) {
	s.log.Warnw("security alert",
		"user_id", userID,
		"transaction_ref", txRef,
		"risk_score", assessment.Score,
		"risk_confidence", assessment.Confidence,
		"action", assessment.Action,
		"reasons", assessment.Reasons,
	)
}

// ReconciliationFault reports a card whose cached balance drifted from the
// transaction log beyond tolerance.
func (s *Service) ReconciliationFault(_ context.Context, cardID uint, delta decimal.Decimal) {
	s.log.Errorw("reconciliation fault",
		"card_id", cardID,
		"delta", delta.String(),
	)
}
