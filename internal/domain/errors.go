package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation blocks an operation before anything is flushed.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when an id does not address a record.
	ErrNotFound = errors.New("record not found")

	// ErrConnectivity means the store could not be reached. It is never retried.
	ErrConnectivity = errors.New("store unreachable")

	// ErrQueryEvaluation is raised by a malformed filter expression.
	ErrQueryEvaluation = errors.New("query evaluation failed")

	// ErrPartialWrite means a full replace failed after its delete phase.
	// The store may be left empty.
	ErrPartialWrite = errors.New("partial write")
)

// Invalid wraps ErrValidation with a reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Unreachable wraps a store error as ErrConnectivity, keeping the cause.
func Unreachable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrConnectivity, op, err)
}

// NotFound wraps ErrNotFound with the kind and id of the missing record.
func NotFound(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
}
