package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypePurchase   = "purchase"
	TransactionTypeRefund     = "refund"
	TransactionTypeFee        = "fee"
	TransactionTypeTopup      = "topup"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeAdjustment = "adjustment"
)

// Transaction statuses. Posted and reversed are terminal once settled;
// failed is the terminal state for risk-rejected entries.
const (
	TransactionStatusPending  = "pending"
	TransactionStatusPosted   = "posted"
	TransactionStatusReversed = "reversed"
	TransactionStatusFailed   = "failed"
)

// Transaction is a single signed ledger entry against a card. Positive
// amounts are inflows, negative amounts are outflows. Rows are append-only:
// reversal creates a compensating state change, never a delete.
type Transaction struct {
	ID               uint            `gorm:"primarykey"`
	Reference        string          `gorm:"uniqueIndex;not null"`
	CardID           uint            `gorm:"not null;index"`
	UserID           uint            `gorm:"not null;index"`
	Type             string          `gorm:"not null"`
	Amount           decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Currency         string          `gorm:"size:3;not null;default:'USD'"`
	Status           string          `gorm:"not null;default:'pending'"`
	Description      string
	MerchantName     string
	MerchantCategory string
	Metadata         JSON `gorm:"type:jsonb"`

	// Risk assessment attached after scoring.
	RiskScore      *float64
	RiskConfidence *float64
	RiskAction     string
	RiskReasons    JSON `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Settled reports whether the transaction counts toward the card balance.
func (t *Transaction) Settled() bool {
	return t.Status == TransactionStatusPosted
}
