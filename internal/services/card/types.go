package card

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardOperationResult carries the outcome of a status transition.
type CardOperationResult struct {
	CardID         uint      `json:"card_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Reason         string    `json:"reason,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// AddFundsResult is the contract surface of AddFunds. Reason carries the
// failure explanation when Success is false.
type AddFundsResult struct {
	Success       bool             `json:"success"`
	TransactionID string           `json:"transaction_id,omitempty"`
	NewBalance    *decimal.Decimal `json:"new_balance,omitempty"`
	Reason        string           `json:"reason,omitempty"`
}

// CreateTransactionInput is the inbound createTransaction surface.
type CreateTransactionInput struct {
	Type             string
	Amount           decimal.Decimal
	Currency         string
	MerchantName     string
	MerchantCategory string
	Description      string
	Metadata         map[string]interface{}
	Source           string
	Destination      string
	Fee              decimal.Decimal
	Confirmation     float64
}

// Config holds card service defaults.
type Config struct {
	DefaultCurrency string
}
