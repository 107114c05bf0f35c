package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrValidation = errors.New("validation error")

	// ErrOutOfRange is returned when a page number (or another bounded input)
	// falls outside its allowed range. Always a caller error.
	ErrOutOfRange = errors.New("out of range")

	// ErrStoreNotFound means the local word store could not be located or opened.
	// Recoverable by switching to the remote source.
	ErrStoreNotFound = errors.New("word store not found")

	// ErrPageNotFound means a source was reachable but produced no words for the page.
	ErrPageNotFound = errors.New("page not found")

	// ErrInvalidHandle means a query was issued against a closed or never-opened store.
	ErrInvalidHandle = errors.New("invalid store handle")

	// ErrRemoteUnavailable covers network failures, timeouts and malformed payloads
	// from the remote layout service.
	ErrRemoteUnavailable = errors.New("remote layout unavailable")

	// ErrLayoutAnomaly means the word records violate the page/line/position invariants.
	ErrLayoutAnomaly = errors.New("layout anomaly")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// RangeError reports a bounded integer input outside [Min, Max].
type RangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// CheckPageNumber returns a *RangeError when page is outside [MinPage, MaxPage].
func CheckPageNumber(page int) error {
	if page < MinPage || page > MaxPage {
		return &RangeError{Field: "page", Value: page, Min: MinPage, Max: MaxPage}
	}
	return nil
}
