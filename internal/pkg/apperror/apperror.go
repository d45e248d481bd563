package apperror

import (
	"context"
	"errors"
	"fmt"
)

// Error kinds. Every domain error matches exactly one of these with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrForbidden   = errors.New("forbidden")
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("store unavailable")
)

// Error is a domain error carrying a user facing message and its kind.
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

func Validation(message string) *Error { return &Error{Kind: ErrValidation, Message: message} }
func Conflict(message string) *Error   { return &Error{Kind: ErrConflict, Message: message} }
func Forbidden(message string) *Error  { return &Error{Kind: ErrForbidden, Message: message} }
func NotFound(message string) *Error   { return &Error{Kind: ErrNotFound, Message: message} }

// Unavailable wraps a transport level failure of the record store. The
// operation may or may not have been applied.
func Unavailable(op string, err error) *Error {
	return &Error{Kind: ErrUnavailable, Message: op, Err: err}
}

// Message returns the user facing message of err, falling back to err.Error().
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// Store classifies an error returned by the record store. Domain errors pass
// through unchanged, an expired or cancelled context becomes ErrUnavailable
// and anything else is wrapped with op.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) || errors.Is(err, ErrValidation) {
		return err
	}
	if IsTimeout(err) {
		return Unavailable(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsTimeout reports whether err came from an expired or cancelled context.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
