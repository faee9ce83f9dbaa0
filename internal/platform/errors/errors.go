// Package errors provides structured error handling with context propagation and HTTP status code mapping.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error for metrics and response formatting.
type ErrorType string

const (
	// TypeValidation indicates invalid caller input (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeConfiguration indicates a missing or invalid connection descriptor (HTTP 500)
	TypeConfiguration ErrorType = "configuration"
	// TypeConnection indicates the database transport could not be established (HTTP 503)
	TypeConnection ErrorType = "connection"
	// TypeSchema indicates schema initialization failed (HTTP 500)
	TypeSchema ErrorType = "schema"
	// TypeWrite indicates an insertion failed after a connection was opened (HTTP 500)
	TypeWrite ErrorType = "write"
	// TypeNotFound indicates resource not found (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeInternal indicates an uncategorized server-side error (HTTP 500)
	TypeInternal ErrorType = "internal"
)

// Error represents a structured error with type, message, and context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConnection:
		return http.StatusServiceUnavailable
	case TypeConfiguration, TypeSchema, TypeWrite, TypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError creates a new validation error (HTTP 400).
func ValidationError(message string) *Error {
	return &Error{
		Type:    TypeValidation,
		Message: message,
		Context: make(map[string]any),
	}
}

// ConfigurationError creates a new configuration error (HTTP 500).
func ConfigurationError(message string) *Error {
	return &Error{
		Type:    TypeConfiguration,
		Message: message,
		Context: make(map[string]any),
	}
}

// ConnectionError creates a new connection error (HTTP 503).
func ConnectionError(message string, cause error) *Error {
	return &Error{
		Type:    TypeConnection,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// SchemaError creates a new schema initialization error (HTTP 500).
func SchemaError(message string, cause error) *Error {
	return &Error{
		Type:    TypeSchema,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// WriteError creates a new write error (HTTP 500).
func WriteError(message string, cause error) *Error {
	return &Error{
		Type:    TypeWrite,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// NotFoundError creates a new not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return &Error{
		Type:    TypeNotFound,
		Message: message,
		Context: make(map[string]any),
	}
}

// InternalError creates a new internal error (HTTP 500).
func InternalError(message string, cause error) *Error {
	return &Error{
		Type:    TypeInternal,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// WithContext adds context fields to the error (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithField is an alias for WithContext (chainable).
func (e *Error) WithField(key string, value any) *Error {
	return e.WithContext(key, value)
}

// IsType reports whether err is a structured error of the given type.
func IsType(err error, t ErrorType) bool {
	var structuredErr *Error
	return errors.As(err, &structuredErr) && structuredErr.Type == t
}

// ErrorResponse represents the JSON structure sent to clients.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    ErrorType      `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

// ToResponse converts an Error to an ErrorResponse for JSON serialization.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Type:    e.Type,
		Context: e.Context,
	}
}

// AsStructuredError converts any error into a structured Error.
// If err is already an *Error, returns it unchanged.
// Otherwise wraps it as an internal error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return InternalError("internal server error", err)
}
