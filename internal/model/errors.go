package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the parent of every client-side validation failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidNumber is returned when a numeric field cannot be parsed.
	ErrInvalidNumber = errors.New("invalid number")
)

// ValidationError names the offending request field. It matches ErrInvalidInput
// through errors.Is, and ErrInvalidNumber too when the cause was a parse failure.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError without an underlying cause.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
