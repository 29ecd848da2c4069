// internal/apperrors/errors.go
// Tagged error kinds mapped to HTTP status codes (spec.md §7), generalizing
// the teacher's flat sentinel-error list (internal/services/container.go)
// into a structured type since the spec requires mapping kinds to specific
// status codes across far more endpoints than the teacher has.

package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is one of the six error classes from spec.md §7.
type Kind string

const (
	Validation Kind = "VALIDATION"
	Auth       Kind = "AUTH"
	NotFound   Kind = "NOT_FOUND"
	Conflict   Kind = "CONFLICT"
	Dependency Kind = "DEPENDENCY"
	Internal   Kind = "INTERNAL"
)

// Status returns the HTTP status code for a Kind.
func (k Kind) Status() int {
	switch k {
	case Validation:
		return http.StatusUnprocessableEntity
	case Auth:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Dependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a tagged application error carrying a user-facing detail message
// and an optional wrapped cause.
type Error struct {
	Kind   Kind
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs a tagged error with no wrapped cause.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Wrap constructs a tagged error wrapping cause.
func Wrap(kind Kind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, Cause: cause}
}

// Validationf is a convenience constructor for VALIDATION errors.
func Validationf(format string, args ...interface{}) *Error {
	return New(Validation, fmt.Sprintf(format, args...))
}

// Conflictf is a convenience constructor for CONFLICT errors.
func Conflictf(format string, args ...interface{}) *Error {
	return New(Conflict, fmt.Sprintf(format, args...))
}

// NotFoundf is a convenience constructor for NOT_FOUND errors.
func NotFoundf(format string, args ...interface{}) *Error {
	return New(NotFound, fmt.Sprintf(format, args...))
}

// As extracts an *Error from err, if any wraps one.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// KindOf returns the Kind of err, defaulting to Internal if err does not
// wrap an *Error.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return Internal
}
