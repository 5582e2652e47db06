package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the core taxonomy. Repositories and services return
// these (wrapped) so handlers can map them to HTTP statuses uniformly.
var (
	// ErrNotFound indicates an unknown request/user/organization id.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates an access-control denial. The message is
	// deliberately uniform so it never leaks whether the resource exists.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidTransition indicates a status change not reachable from the
	// request's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError carries field-level detail for missing/invalid input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// AsValidationError returns the ValidationError in err's chain, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
