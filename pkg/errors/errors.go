package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for the integration pipeline
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad ErrorCode = "CONFIG_LOAD"
	ErrCompat     ErrorCode = "COMPAT"

	// Pipeline phase errors
	ErrLockHeld          ErrorCode = "LOCK_HELD"
	ErrTreeReset         ErrorCode = "TREE_RESET"
	ErrFetch             ErrorCode = "FETCH"
	ErrProcedureNotFound ErrorCode = "PROCEDURE_NOT_FOUND"
	ErrPrecondition      ErrorCode = "PRECONDITION"
	ErrManifestPatch     ErrorCode = "MANIFEST_PATCH"
	ErrProcedureExecute  ErrorCode = "PROCEDURE_EXECUTE"
	ErrMarkerWrite       ErrorCode = "MARKER_WRITE"
)

// UpliftError represents a structured error with code and details
type UpliftError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *UpliftError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *UpliftError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *UpliftError) Is(target error) bool {
	var targetErr *UpliftError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new UpliftError with the given code and message
func New(code ErrorCode, message string) *UpliftError {
	return &UpliftError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new UpliftError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *UpliftError {
	return &UpliftError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an UpliftError
func Wrap(err error, code ErrorCode, message string) *UpliftError {
	if err == nil {
		return nil
	}
	return &UpliftError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *UpliftError {
	if err == nil {
		return nil
	}
	return &UpliftError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *UpliftError) WithDetail(key string, value interface{}) *UpliftError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var upliftErr *UpliftError
	if errors.As(err, &upliftErr) {
		return upliftErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an UpliftError
func GetErrorCode(err error) ErrorCode {
	var upliftErr *UpliftError
	if errors.As(err, &upliftErr) {
		return upliftErr.Code
	}
	return ErrUnknown
}
