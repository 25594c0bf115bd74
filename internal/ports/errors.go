package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Market Data Errors
	ErrExchangeUnavailable = errors.New("exchange API is unavailable")
	ErrConnectionFailed    = errors.New("failed to connect to the exchange")
	ErrRateLimited         = errors.New("API rate limit exceeded")

	// Notification Errors
	// ErrPossiblyDelivered marks the ambiguous transient dispatch condition
	// where the connection dropped after the request was written: the message
	// may well have reached the destination, so callers must not retry.
	ErrPossiblyDelivered = errors.New("dispatch interrupted, message possibly delivered")
	ErrDispatchFailed    = errors.New("failed to dispatch notification")
)
