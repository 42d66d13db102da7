package ledger

import "errors"

// Service errors
var (
	ErrCardNotFound        = errors.New("card not found")
	ErrCardClosed          = errors.New("card is closed")
	ErrInvalidOperation    = errors.New("invalid operation")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrCurrencyMismatch    = errors.New("transaction currency does not match card")
	ErrInsufficientFunds   = errors.New("insufficient card balance")
	ErrRiskBlocked         = errors.New("transaction blocked by risk assessment")
	ErrConflict            = errors.New("concurrent balance update conflict")
	ErrReconciliationFault = errors.New("cached balance diverged from transaction log")
)
