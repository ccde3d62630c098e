// Package errors provides the structured errors surfaced by screenflow.
//
// Every failure a user can see carries a machine-readable [Code] and a
// message that can be shown as is:
//
//   - INVALID_*: bad input (document, direction, engine, format, name)
//   - EMPTY_FLOW: the page has no screens connected by transitions
//   - TIER_LIMIT: more screens than the active tier allows
//   - FEATURE_GATED: a pro-only capability was requested
//   - EXPORT_FAILED: the export renderer failed; no artifact is produced
//   - NOT_FOUND: an unknown page, diagram or cache entry
//   - INTERNAL_ERROR: anything unexpected, including recovered panics
//
// # Usage
//
//	err := errors.New(errors.ErrCodeTierLimit, "found %d screens, the %s tier allows up to %d", n, name, limit)
//	if errors.Is(err, errors.ErrCodeTierLimit) {
//	    // show upgrade hint
//	}
//
//	err := errors.Wrap(errors.ErrCodeExportFailed, cause, "export %s", format)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidEngine    Code = "INVALID_ENGINE"
	ErrCodeInvalidDocument  Code = "INVALID_DOCUMENT"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Flow generation outcomes
	ErrCodeEmptyFlow    Code = "EMPTY_FLOW"
	ErrCodeTierLimit    Code = "TIER_LIMIT"
	ErrCodeFeatureGated Code = "FEATURE_GATED"
	ErrCodeExportFailed Code = "EXPORT_FAILED"

	// Internal errors
	ErrCodeTimeout  Code = "TIMEOUT"
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Internal converts any error without a code into an ErrCodeInternal error
// with a generic message. Errors that already carry a code pass through.
func Internal(err error) error {
	if err == nil || GetCode(err) != "" {
		return err
	}
	return Wrap(ErrCodeInternal, err, "unexpected internal error")
}

// Recover turns a panic in the calling function into an ErrCodeInternal
// error stored in *errp. It must be deferred directly:
//
//	func handle() (err error) {
//	    defer errors.Recover(&err)
//	    ...
//	}
func Recover(errp *error) {
	if r := recover(); r != nil {
		*errp = Wrap(ErrCodeInternal, fmt.Errorf("panic: %v", r), "unexpected internal error")
	}
}

// HTTPStatus maps an error to the HTTP status reported by the server.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidDirection,
		ErrCodeInvalidEngine, ErrCodeInvalidDocument, ErrCodeInvalidPath:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeEmptyFlow:
		return http.StatusUnprocessableEntity
	case ErrCodeTierLimit, ErrCodeFeatureGated:
		return http.StatusPaymentRequired
	case ErrCodeExportFailed:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
