package domain

import "errors"

// Sentinel errors for the caller-visible failure taxonomy. Callers classify
// with errors.Is; the wrapping message carries the specifics (which rule
// failed, which id is missing).
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrActivityNotFound = errors.New("activity not found")
	ErrValidation       = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("event store unavailable")
)
