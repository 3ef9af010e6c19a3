// Package apperr defines the error taxonomy shared by the store, the chat
// pipeline and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Use errors.Is against these.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("upstream failure")
	ErrInternal     = errors.New("internal error")
)

// Error carries a message that is safe to show to the caller.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports a missing resource, e.g. NotFound("chat", id).
func NotFound(resource, id string) error {
	return &Error{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Err:     fmt.Errorf("%w: %s %q", ErrNotFound, resource, id),
	}
}

// InvalidInput reports a client error with the given message.
func InvalidInput(message string) error {
	return &Error{
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// Upstream wraps a failure of an external collaborator such as the model gateway.
func Upstream(service string, err error) error {
	return &Error{
		Code:    "UPSTREAM_FAILURE",
		Message: fmt.Sprintf("%s is unavailable", service),
		Err:     fmt.Errorf("%w: %v", ErrUpstream, err),
	}
}

// Internal hides err behind a generic message.
func Internal(err error) error {
	return &Error{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Err:     fmt.Errorf("%w: %v", ErrInternal, err),
	}
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidInput reports whether err is an InvalidInput error.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsUpstream reports whether err is an UpstreamFailure error.
func IsUpstream(err error) bool { return errors.Is(err, ErrUpstream) }

// UserMessage returns the caller-safe message for err.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "an internal error occurred"
}
