package card

import (
	"fmt"
	"time"

	"celora/internal/models"
)

// allowedTransitions is the card status transition table. Closed is
// terminal: no outgoing transitions, ever.
var allowedTransitions = map[string][]string{
	models.CardStatusActive:    {models.CardStatusSuspended, models.CardStatusClosed},
	models.CardStatusSuspended: {models.CardStatusActive, models.CardStatusClosed},
	models.CardStatusClosed:    {},
}

// ValidateStatusTransition fails with ErrIllegalTransition when the
// transition is a self-loop or not in the allowed set for current.
func ValidateStatusTransition(current, next string) error {
	allowed, ok := allowedTransitions[current]
	if !ok {
		return fmt.Errorf("%w: unknown status %q", ErrIllegalTransition, current)
	}
	if current == next {
		return fmt.Errorf("%w: card is already %s", ErrIllegalTransition, current)
	}
	for _, s := range allowed {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current, next)
}

func newOperationResult(previous, next, reason string) *CardOperationResult {
	return &CardOperationResult{
		PreviousStatus: previous,
		NewStatus:      next,
		Reason:         reason,
		Timestamp:      time.Now().UTC(),
	}
}
