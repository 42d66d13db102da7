package topup

import "errors"

// Service errors
var (
	ErrLinkNotFound     = errors.New("card has no funding wallet link")
	ErrUpstreamTimeout  = errors.New("funding source check timed out")
	ErrConversionFailed = errors.New("conversion failed")
	ErrPinInvalid       = errors.New("funding link pin is invalid")
	ErrLinkLocked       = errors.New("funding link locked after repeated failed pin attempts")
)
