package domain

import "errors"

// The two recoverable error kinds surfaced to callers. Services wrap them
// with context via fmt.Errorf("...: %w", ...); the HTTP layer maps them with
// errors.Is to 404 and 400. Anything else is treated as an internal failure.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)
