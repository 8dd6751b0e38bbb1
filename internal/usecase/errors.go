package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"tour-booking/internal/data/repository"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	ErrBookingNotFound = &kindError{msg: "booking not found", kind: ErrNotFound}
	ErrTourNotFound    = &kindError{msg: "tour not found", kind: ErrNotFound}
	ErrDateUnavailable = &kindError{msg: "selected date is not available", kind: ErrConflict}
	ErrBookingChanged  = &kindError{msg: "booking was changed by another request, reload and try again", kind: ErrConflict}

	// ErrPersistence marks store failures; callers see an opaque 500.
	ErrPersistence = repository.ErrPersistence
)

// kindError has its own message and matches its kind with errors.Is.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Public is the message safe to show to API clients.
func (e *kindError) Public() string { return e.msg }

// ValidationError carries field level messages keyed by the json field name.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotificationError records a failed best-effort send. It is logged, never returned to clients.
type NotificationError struct {
	Kind      string
	BookingID string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("send %s for booking %s: %v", e.Kind, e.BookingID, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
