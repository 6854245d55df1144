// Package clierr defines structured error types for CLI commands.
// Errors carry a machine-readable code, a human-readable message,
// and optional details for scripted consumers.
package clierr

import (
	"fmt"
	"strconv"
)

// Error code constants. Codes are uppercase and stable across minor versions.
const (
	ListNotFound      = "LIST_NOT_FOUND"
	ListAlreadyExists = "LIST_ALREADY_EXISTS"
	InvalidInput      = "INVALID_INPUT"
	InvalidIndex      = "INVALID_INDEX"
	IndexOutOfRange   = "INDEX_OUT_OF_RANGE"
	InvalidFormat     = "INVALID_FORMAT"
	ConfirmationReq   = "CONFIRMATION_REQUIRED"
	StoreClosed       = "STORE_CLOSED"
	InternalError     = "INTERNAL_ERROR"
)

// Error represents a structured CLI error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// Is reports whether target is an *Error carrying the same code, so callers
// can match with errors.Is(err, clierr.New(code, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// SilentError signals an exit code without additional output.
// Used when the command already wrote its own result.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
