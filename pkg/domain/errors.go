package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAnimal marks a submitted record that failed validation.
	ErrInvalidAnimal = errors.New("animal is not properly formatted")
	// ErrNoDocument is returned by a Backend when no collection document has
	// been stored yet.
	ErrNoDocument = errors.New("animal document does not exist")
	// ErrPersist marks a failure to write the collection to its backend.
	ErrPersist = errors.New("persist animals")
)

// ErrNotFound is returned when no record carries the requested identifier.
type ErrNotFound struct {
	ID string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("animal %s not found", e.ID)
}

// ValidationError names the first field that made a submission invalid.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid animal: %s %s", e.Field, e.Reason)
}

// Unwrap lets callers test for ErrInvalidAnimal with errors.Is.
func (e *ValidationError) Unwrap() error { return ErrInvalidAnimal }
