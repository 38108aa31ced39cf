package booking

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrCapacityExceeded   = errors.New("capacity exceeded")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrDuplicateReference = errors.New("could not generate a unique reference")
	ErrNotFound           = errors.New("booking not found")
)

// ValidationError carries field-level detail for 400 responses. It
// unwraps to ErrValidation so callers can match either way.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %v", e.Fields)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalidField(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}
