package risk

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func inUnitRange(t *testing.T, f [FeatureCount]float64) {
	t.Helper()
	for i, v := range f {
		assert.GreaterOrEqual(t, v, 0.0, "feature %d", i)
		assert.LessOrEqual(t, v, 1.0, "feature %d", i)
	}
}

func TestExtractFeaturesTotal(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ev   Event
	}{
		{"zero event", Event{}},
		{
			"typical purchase",
			Event{
				Amount:       decimal.RequireFromString("-42.50"),
				Fee:          decimal.RequireFromString("0.30"),
				Timestamp:    now.Add(-2 * time.Hour),
				Source:       "acct_8f3b2c",
				Destination:  "merch_coffee_01",
				Confirmation: 0.98,
			},
		},
		{
			"extreme values",
			Event{
				Amount:       decimal.RequireFromString("999999999999"),
				Fee:          decimal.RequireFromString("-500000"),
				Timestamp:    now.Add(48 * time.Hour), // future timestamp
				Source:       strings.Repeat("x", 500),
				Destination:  strings.Repeat("\xff\xfe garbage \x00", 20),
				Confirmation: 17.5,
			},
		},
		{
			"negative confirmation",
			Event{Amount: decimal.NewFromInt(1), Confirmation: -3},
		},
		{
			"very old event",
			Event{Amount: decimal.NewFromInt(10), Timestamp: now.Add(-90 * 24 * time.Hour)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inUnitRange(t, ExtractFeatures(tt.ev, now))
		})
	}
}

func TestExtractFeaturesAmountMonotonic(t *testing.T) {
	now := time.Now().UTC()
	small := ExtractFeatures(Event{Amount: decimal.NewFromInt(10)}, now)
	large := ExtractFeatures(Event{Amount: decimal.NewFromInt(100000)}, now)
	assert.Greater(t, large[featAmount], small[featAmount])

	// Sign does not matter for magnitude.
	debit := ExtractFeatures(Event{Amount: decimal.NewFromInt(-100000)}, now)
	assert.Equal(t, large[featAmount], debit[featAmount])
}

func TestExtractFeaturesRecency(t *testing.T) {
	now := time.Now().UTC()

	fresh := ExtractFeatures(Event{Timestamp: now}, now)
	assert.InDelta(t, 1.0, fresh[featRecency], 1e-9)

	stale := ExtractFeatures(Event{Timestamp: now.Add(-48 * time.Hour)}, now)
	assert.Zero(t, stale[featRecency])
}

func TestDistinctChars(t *testing.T) {
	assert.Zero(t, distinctChars(""))
	assert.Equal(t, 1.0, distinctChars("aaaa"))
	assert.Equal(t, 4.0, distinctChars("abcd"))
	assert.Equal(t, 3.0, distinctChars("aabbcc"))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-5))
	assert.Equal(t, 0.0, clamp01(math.NaN()))
	assert.Equal(t, 0.5, clamp01(0.5))
	assert.Equal(t, 1.0, clamp01(7))
}
