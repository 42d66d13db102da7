package card

import "errors"

// Service errors
var (
	ErrCardNotFound      = errors.New("card not found")
	ErrNotOwner          = errors.New("card does not belong to user")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrInvalidCurrency   = errors.New("invalid currency code")
)

// AmountMustBePositive is the exact reason string returned to callers of
// AddFunds for non-positive amounts. Existing clients match on it.
const AmountMustBePositive = "Amount must be positive"
