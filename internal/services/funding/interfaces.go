// Package funding talks to external funding sources. Every call carries a
// hard timeout; callers treat a timeout as default-deny, never default-allow.
package funding

import (
	"context"
	"errors"

	"celora/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrUpstreamTimeout     = errors.New("funding source check timed out")
	ErrSourceUnavailable   = errors.New("funding source unavailable")
	ErrInsufficientFunding = errors.New("funding source balance too low")
)

// Source exposes the external funding wallet behind a card link.
type Source interface {
	// Balance returns the available balance and its currency.
	Balance(ctx context.Context, link *models.CardWalletLink) (decimal.Decimal, string, error)
	// Charge pulls funds from the source and returns an external reference.
	Charge(ctx context.Context, link *models.CardWalletLink, amount decimal.Decimal, currency string) (string, error)
}
