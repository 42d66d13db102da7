package risk

import "errors"

// Service errors
var (
	ErrSignerUnavailable = errors.New("signature scheme unavailable")
	ErrEvolutionFailed   = errors.New("network evolution failed")
)
