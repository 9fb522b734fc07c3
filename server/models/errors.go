package models

import (
	"errors"
	"strings"
)

var (
	ErrNotFound         = errors.New("contact not found")
	ErrInvalidID        = errors.New("invalid contact ID format")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrNotInitialized   = errors.New("store not initialized")
)

// ValidationError lists every field level problem found in a request body.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, "; ")
}

func newValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Errors: msgs}
}
