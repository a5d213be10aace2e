package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation references an id the store does not hold.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks rejected input. Concrete errors are *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrCategoryInUse is returned when deleting a category that tasks still reference.
	ErrCategoryInUse = errors.New("category is in use")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a *ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
