package core

import (
	"fmt"
	"strings"
)

// ValidationError reports a client-side argument problem detected before any
// network I/O happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// RequireNonEmpty returns a ValidationError when value is blank.
func RequireNonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "cannot be empty"}
	}
	return nil
}

// APIError is a non-2xx response from the service, carrying the HTTP status
// and the server-provided message when one was present in the body.
type APIError struct {
	StatusCode    int
	Message       string
	TransactionID string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("service returned status %d: %s", e.StatusCode, e.Message)
}

// DecodeError reports a response body that did not match the expected shape.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
