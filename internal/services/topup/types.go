package topup

import (
	"github.com/shopspring/decimal"
)

// Decision is the outcome of an auto-topup evaluation. Reason explains a
// negative decision for operator visibility.
type Decision struct {
	Should bool            `json:"should"`
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason,omitempty"`
}

// Config holds conversion policy.
type Config struct {
	// FeePercent is applied to the source amount on cross-currency moves.
	FeePercent decimal.Decimal
}

// rates is a static conversion table; a live FX feed is an external
// collaborator and out of scope here. Rates are quoted against USD.
var usdRates = map[string]decimal.Decimal{
	"USD": decimal.NewFromInt(1),
	"EUR": decimal.RequireFromString("0.92"),
	"GBP": decimal.RequireFromString("0.79"),
	"JPY": decimal.RequireFromString("147.2"),
	"CAD": decimal.RequireFromString("1.36"),
}

// exchangeRate returns the source->target rate, 1 when either side is
// unknown or the currencies match.
func exchangeRate(source, target string) decimal.Decimal {
	if source == target {
		return decimal.NewFromInt(1)
	}
	src, okS := usdRates[source]
	dst, okT := usdRates[target]
	if !okS || !okT || src.IsZero() {
		return decimal.NewFromInt(1)
	}
	return dst.Div(src).Round(8)
}
