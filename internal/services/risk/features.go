package risk

import (
	"math"
	"time"
)

// FeatureCount is the fixed dimension of the scoring network input.
const FeatureCount = 8

// Feature vector positions.
const (
	featAmount = iota
	featRecency
	featSourceLen
	featDestLen
	featFee
	featConfirmation
	featHourOfDay
	featAddressEntropy
)

// Normalization scales for the raw event fields.
const (
	amountLogScale = 13.8155 // log1p of 1e6 units, saturation point
	addressLenMax  = 64.0
	feeScale       = 100.0
	entropyCharMax = 36.0
	recencyWindow  = 24 * time.Hour
)

// ExtractFeatures maps a raw event to the fixed numeric vector consumed by
// the scoring network. It is total: any input, including zero values and
// garbage addresses, yields a vector with every component in [0,1]. This is
// the only translation point from event fields to network input, so the
// network can be retrained or swapped without touching callers.
func ExtractFeatures(ev Event, now time.Time) [FeatureCount]float64 {
	var f [FeatureCount]float64

	amount, _ := ev.Amount.Abs().Float64()
	f[featAmount] = clamp01(math.Log1p(amount) / amountLogScale)

	age := now.Sub(ev.Timestamp)
	if age < 0 {
		age = 0
	}
	f[featRecency] = clamp01(1 - age.Hours()/recencyWindow.Hours())

	f[featSourceLen] = clamp01(float64(len(ev.Source)) / addressLenMax)
	f[featDestLen] = clamp01(float64(len(ev.Destination)) / addressLenMax)

	fee, _ := ev.Fee.Abs().Float64()
	f[featFee] = clamp01(fee / feeScale)

	f[featConfirmation] = clamp01(ev.Confirmation)

	hour := float64(ev.Timestamp.UTC().Hour()) + float64(ev.Timestamp.UTC().Minute())/60
	f[featHourOfDay] = (math.Sin(2*math.Pi*hour/24) + 1) / 2

	f[featAddressEntropy] = clamp01(distinctChars(ev.Source+ev.Destination) / entropyCharMax)

	return f
}

func distinctChars(s string) float64 {
	seen := make(map[rune]struct{}, len(s))
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return float64(len(seen))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
