// Package apperror provides the domain error types for Inkwell. Each error
// carries an HTTP status code and a message that is safe to show to the
// client; the Echo error handler maps them to responses automatically.
//
// Raw database or infrastructure errors must never reach the client. Wrap
// them with NewInternal so the cause is logged but the client only sees a
// generic message.
package apperror

import (
	"fmt"
	"net/http"
)

// AppError is the base type for all domain errors. Code and Type classify
// the error, Message is client-safe, and Internal holds the underlying
// cause for logging only.
type AppError struct {
	// Code is the HTTP status code (e.g., 409, 422, 500).
	Code int `json:"-"`

	// Type is a machine-readable classifier (e.g., "conflict").
	Type string `json:"type"`

	// Message is a human-readable description safe for the client.
	Message string `json:"message"`

	// Internal holds the underlying error. Never exposed to the client.
	Internal error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// --- Constructors ---

// NewValidation creates a 422 error for malformed or inconsistent input
// (e.g., password and confirmation do not match).
func NewValidation(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Type:    "validation_error",
		Message: message,
	}
}

// NewConflict creates a 409 error for uniqueness violations.
func NewConflict(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Type:    "conflict",
		Message: message,
	}
}

// NewUnauthorized creates a 401 error. Login failures always use the same
// message regardless of cause so identities cannot be enumerated.
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Type:    "unauthorized",
		Message: message,
	}
}

// NewNotFound creates a 404 Not Found error.
func NewNotFound(message string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Type:    "not_found",
		Message: message,
	}
}

// NewBadRequest creates a 400 Bad Request error.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    "bad_request",
		Message: message,
	}
}

// NewInternal creates a 500 error. The real error is kept in Internal for
// logging; the client only ever sees the generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "internal_error",
		Message:  "An unexpected error occurred. Please try again.",
		Internal: err,
	}
}

// SafeMessage returns the client-safe message for an error. AppErrors expose
// their Message field; anything else collapses to a generic message so
// internals (queries, table names, stack traces) never leak.
func SafeMessage(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Message
	}
	return "an unexpected error occurred"
}

// SafeCode returns the HTTP status code for an error, or 500 for non-AppErrors.
func SafeCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
