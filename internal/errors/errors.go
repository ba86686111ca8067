// Package errors provides coded application errors for the contracts service.
//
// Errors carry an ErrorCode that handlers translate into HTTP or gRPC status
// codes. Stack traces and wrapping come from github.com/cockroachdb/errors.
package errors

import (
	"fmt"
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// ErrorCode classifies an application error.
type ErrorCode string

const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeLocked            ErrorCode = "LOCKED"
	ErrCodeConflict          ErrorCode = "CONFLICT"
	ErrCodeInternal          ErrorCode = "INTERNAL"
)

// Error inspection re-exported so callers need a single errors import.
var (
	Is     = crdb.Is
	As     = crdb.As
	Unwrap = crdb.Unwrap
)

// AppError is a coded error with an optional field, detail list and cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Field   string
	Details []string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *AppError) Unwrap() error {
	return e.cause
}

// New creates a coded error.
func New(code ErrorCode, message string) error {
	return crdb.WithStackDepth(&AppError{Code: code, Message: message}, 1)
}

// Wrap attaches a code and message to err. Wrapping nil returns nil.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return crdb.WithStackDepth(&AppError{Code: code, Message: message, cause: err}, 1)
}

// NotFound reports a missing resource.
func NotFound(resource, id string) error {
	return crdb.WithStackDepth(&AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}, 1)
}

// InvalidInput reports a single malformed input field.
func InvalidInput(field, message string) error {
	return crdb.WithStackDepth(&AppError{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf("invalid %s: %s", field, message),
		Field:   field,
	}, 1)
}

// Validation reports every violation found by a validator. The messages are
// kept verbatim in Details so callers can re-present them.
func Validation(messages []string) error {
	return crdb.WithStackDepth(&AppError{
		Code:    ErrCodeInvalidInput,
		Message: "validation failed: " + strings.Join(messages, "; "),
		Details: append([]string(nil), messages...),
	}, 1)
}

// GetCode returns the code of the outermost AppError in err's chain, or
// ErrCodeInternal when there is none.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && GetCode(err) == code
}

// Details returns the detail messages of the outermost AppError in err's chain.
func Details(err error) []string {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Details
	}
	return nil
}

// Message returns the user-facing message of err without the cause chain.
func Message(err error) string {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
