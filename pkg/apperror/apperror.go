// Package apperror is the error taxonomy shared by services and handlers.
//
// Services return *Error values; ctx.Context.Fail turns them into the JSON
// envelope with the matching status. Anything that is not an *Error is
// reported to the client as a generic 500.
package apperror

import (
	"errors"
	"net/http"
)

// Error is a client-facing failure with an HTTP status.
type Error struct {
	Code    int
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func newError(code int, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// BadRequest is a 400 with a plain message.
func BadRequest(msg string) *Error { return newError(http.StatusBadRequest, msg) }

// Invalid is a 400 carrying per-field validation messages.
func Invalid(fields map[string]string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: "Validation failed", Fields: fields}
}

func Unauthorized(msg string) *Error { return newError(http.StatusUnauthorized, msg) }
func Forbidden(msg string) *Error    { return newError(http.StatusForbidden, msg) }
func NotFound(msg string) *Error     { return newError(http.StatusNotFound, msg) }

// Internal wraps an unexpected failure. msg is what the client sees; cause
// is kept for logs only.
func Internal(msg string, cause error) *Error {
	return &Error{Code: http.StatusInternalServerError, Message: msg, cause: cause}
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
