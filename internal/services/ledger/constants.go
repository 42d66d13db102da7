package ledger

// Default policy values
const (
	DefaultTopupCeiling = "10000"

	// Score at or above which a block recommendation also suspends the card.
	HighSeverityScore = 0.9
)

// currencyExponents maps ISO 4217 codes to their minor unit exponent.
// Unlisted currencies default to two decimal places.
var currencyExponents = map[string]int32{
	"USD": 2,
	"EUR": 2,
	"GBP": 2,
	"CAD": 2,
	"AUD": 2,
	"JPY": 0,
	"KRW": 0,
	"KWD": 3,
	"BHD": 3,
}

const defaultCurrencyExponent = 2
