package funding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"celora/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/balance"
	"github.com/stripe/stripe-go/v72/charge"
)

// DefaultTimeout bounds every upstream funding call.
const DefaultTimeout = 5 * time.Second

type stripeSource struct {
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewStripeSource builds a Stripe-backed funding source. The circuit breaker
// keeps a flapping upstream from stalling every posting that needs a
// funding check.
func NewStripeSource(apiKey string, timeout time.Duration) Source {
	stripe.Key = apiKey
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &stripeSource{
		timeout: timeout,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "stripe-funding",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

func (s *stripeSource) Balance(ctx context.Context, link *models.CardWalletLink) (decimal.Decimal, string, error) {
	result, err := s.execute(ctx, func() (interface{}, error) {
		return balance.Get(&stripe.BalanceParams{})
	})
	if err != nil {
		return decimal.Zero, "", err
	}

	bal := result.(*stripe.Balance)
	for _, avail := range bal.Available {
		cur := strings.ToUpper(string(avail.Currency))
		if cur == link.FundingCurrency {
			return decimal.New(avail.Value, -2), cur, nil
		}
	}
	return decimal.Zero, link.FundingCurrency, nil
}

func (s *stripeSource) Charge(ctx context.Context, link *models.CardWalletLink, amount decimal.Decimal, currency string) (string, error) {
	minor := amount.Shift(2).IntPart()
	result, err := s.execute(ctx, func() (interface{}, error) {
		return charge.New(&stripe.ChargeParams{
			Amount:      stripe.Int64(minor),
			Currency:    stripe.String(strings.ToLower(currency)),
			Customer:    stripe.String(link.FundingWalletRef),
			Description: stripe.String("card auto top-up"),
		})
	})
	if err != nil {
		return "", err
	}
	return result.(*stripe.Charge).ID, nil
}

// execute runs fn under the breaker with a hard deadline. The upstream call
// itself is not cancellable through the older client, so the deadline races
// a result channel; a late result is discarded.
func (s *stripeSource) execute(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type outcome struct {
		v   interface{}
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		v, err := s.breaker.Execute(fn)
		ch <- outcome{v, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, ctx.Err())
	case out := <-ch:
		if out.err != nil {
			if errors.Is(out.err, gobreaker.ErrOpenState) || errors.Is(out.err, gobreaker.ErrTooManyRequests) {
				return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, out.err)
			}
			return nil, out.err
		}
		return out.v, nil
	}
}
