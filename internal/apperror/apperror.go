// Package apperror defines the application error taxonomy. Every service
// (use-case) failure is one of these kinds; handlers map the kind's status
// to the HTTP response and never expose anything beyond Message.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindBadRequest   Kind = "BAD_REQUEST"
	KindUnexpected   Kind = "UNEXPECTED"
)

// Error is an application error with a kind and a fixed HTTP status.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Unauthorized returns a 401 error (invalid credentials or token).
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, Status: http.StatusUnauthorized}
}

// Forbidden returns a 403 error (authorization failure).
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message, Status: http.StatusForbidden}
}

// NotFound returns a 404 error for a missing resource.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource), Status: http.StatusNotFound}
}

// Conflict returns a 409 error (e.g. duplicate user id).
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message, Status: http.StatusConflict}
}

// ConflictWithStatus returns a conflict error with an explicit status.
// Duplicate organization names are reported as 400 rather than 409.
func ConflictWithStatus(message string, status int) *Error {
	return &Error{Kind: KindConflict, Message: message, Status: status}
}

// BadRequest returns a 400 error for malformed input.
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message, Status: http.StatusBadRequest}
}

// Unexpected returns a 500 error wrapping an invariant violation or an
// unmapped store failure. The wrapped error is for logs only.
func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Message: "internal server error", Status: http.StatusInternalServerError, Err: err}
}

// From returns err as *Error if it is one, or wraps it as Unexpected.
// Use at service boundaries so no raw infrastructure error escapes.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unexpected(err)
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Kind == kind
}
