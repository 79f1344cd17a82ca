package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Use errors.Is against these to classify a failure.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Error is a client-facing error carrying its kind and an optional cause
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a validation error
func Validation(format string, args ...any) error {
	return newf(ErrValidation, format, args...)
}

// NotFound builds a not-found error
func NotFound(format string, args ...any) error {
	return newf(ErrNotFound, format, args...)
}

// Conflict builds a conflict error
func Conflict(format string, args ...any) error {
	return newf(ErrConflict, format, args...)
}

// Unauthorized builds an unauthorized error
func Unauthorized(format string, args ...any) error {
	return newf(ErrUnauthorized, format, args...)
}

// Forbidden builds a forbidden error
func Forbidden(format string, args ...any) error {
	return newf(ErrForbidden, format, args...)
}

// Wrap attaches a kind and message to an underlying error
func Wrap(kind error, err error, message string) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// HTTPStatus maps an error to the status code returned to clients.
// Unclassified errors are internal.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text safe to show a client
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
