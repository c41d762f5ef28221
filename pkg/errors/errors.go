// Package errors provides structured error types for seatmap.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the editor and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The floor-plan core raises four kinds of error:
//   - INVALID_GEOMETRY: a table with a non-positive or non-finite dimension
//   - NOT_FOUND: a layout id that has no stored document
//   - STORAGE_FAILURE: a transport or database error during save or load
//   - SCHEMA_MISMATCH: a stored document that fails the versioned schema
//
// INVALID_GEOMETRY and NOT_FOUND are meant for user-facing messages.
// STORAGE_FAILURE is recoverable by retrying the action that caused it.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidGeometry, "width must be positive, got %g", w)
//	if errors.Is(err, errors.ErrCodeInvalidGeometry) {
//	    // Show a message, the model was not mutated
//	}
//
//	// Wrap driver errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "insert layout")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidGeometry Code = "INVALID_GEOMETRY"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Persistence errors
	ErrCodeStorage        Code = "STORAGE_FAILURE"
	ErrCodeSchemaMismatch Code = "SCHEMA_MISMATCH"

	// Authentication errors
	ErrCodeUnauthorized Code = "UNAUTHORIZED"
	ErrCodeForbidden    Code = "FORBIDDEN"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Recoverable reports whether the user can act on err without restarting
// the editor. Every error raised by the floor-plan core is scoped to a
// single operation, so only internal errors are treated as unrecoverable.
func Recoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeInternal, "":
		return false
	default:
		return true
	}
}
