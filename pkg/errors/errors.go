package errors

import (
	"errors"
	"fmt"
)

// Domain error types shared by ingestion, filtering and aggregation

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists indicates a resource already exists
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates rejected upstream credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// Ingestion and aggregation errors

var (
	// ErrRateLimitExceeded indicates an upstream API rate limit was hit
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrSourceFailed indicates a social or news source could not be fetched
	ErrSourceFailed = errors.New("source fetch failed")

	// ErrNoAssets indicates no ranked assets with market data are available
	ErrNoAssets = errors.New("no tracked assets available")

	// ErrLockNotAcquired indicates another instance holds the run lock
	ErrLockNotAcquired = errors.New("run lock held by another instance")

	// ErrUnknownCategory indicates a quiz scoring map referenced an unknown key
	ErrUnknownCategory = errors.New("unknown scoring category")
)

// ValidationError represents a validation error with field-specific details.
// It matches ErrInvalidInput unless Err names a more specific sentinel.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
	Err     error
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap returns the sentinel the error matches
func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// StatusError reports an unexpected HTTP status from an upstream source
type StatusError struct {
	Source string
	Code   int
	Body   string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Source, e.Code)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Source, e.Code, e.Body)
}

// StatusCode exposes the HTTP status for retry classification
func (e *StatusError) StatusCode() int {
	return e.Code
}

// Unwrap maps well-known statuses onto sentinels
func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == 429:
		return ErrRateLimitExceeded
	case e.Code == 401 || e.Code == 403:
		return ErrUnauthorized
	case e.Code == 404:
		return ErrNotFound
	case e.Code >= 500:
		return ErrUnavailable
	}
	return nil
}

// NewStatusError creates a status error for a source
func NewStatusError(source string, code int, body string) *StatusError {
	if len(body) > 256 {
		body = body[:256]
	}
	return &StatusError{Source: source, Code: code, Body: body}
}

// MultiError wraps multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("multiple errors (%d): %v", len(m.Errors), m.Errors[0])
}

// Add adds an error to the list
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// HasErrors returns true if there are any errors
func (m *MultiError) HasErrors() bool {
	return len(m.Errors) > 0
}

// ToError returns the MultiError as an error, or nil if no errors
func (m *MultiError) ToError() error {
	if !m.HasErrors() {
		return nil
	}
	return m
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
