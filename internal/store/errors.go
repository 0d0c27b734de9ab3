package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when no record matches an identifier.
	ErrNotFound = errors.New("not found")
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("validation error")
)

// ValidationError lists the problems found with a payload, one per field.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError from one or more messages.
func Invalid(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}
