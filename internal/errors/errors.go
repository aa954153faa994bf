// Package errors provides the coded error type shared by the planner, the
// service layer and the HTTP handlers.
//
// Business-rule failures (a party that cannot be seated, a clashing booking)
// carry a machine-readable Code so handlers can pick a status without
// matching on message text. Persistence faults are wrapped with
// ErrCodeInternal and keep their cause for logging.
//
//	err := errors.New(errors.ErrCodeNoSpace, "no space for a cluster of %d tables", k)
//	if errors.Is(err, errors.ErrCodeNoSpace) {
//	    // respond 422
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable failure reason.
type Code string

const (
	// Input validation
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Planner outcomes
	ErrCodeInsufficientCapacity Code = "INSUFFICIENT_CAPACITY"
	ErrCodeNoCluster            Code = "NO_CLUSTER"
	ErrCodeNoSpace              Code = "NO_SPACE"
	ErrCodeConflict             Code = "SCHEDULE_CONFLICT"

	// Lookups
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeLayoutNotFound Code = "LAYOUT_NOT_FOUND"
	ErrCodeNoActiveLayout Code = "NO_ACTIVE_LAYOUT"
	ErrCodeForbidden      Code = "FORBIDDEN"
	ErrCodeNotCancellable Code = "NOT_CANCELLABLE"
	ErrCodeUnauthorized   Code = "UNAUTHORIZED"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that keeps cause in the chain.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of the first *Error in the chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix or cause.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
