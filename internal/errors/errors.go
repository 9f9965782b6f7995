// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., an ownership
	// or membership invariant would be violated).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingParameter indicates a required parameter is absent.
	ErrMissingParameter = errors.New("missing parameter")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the policy engine denied the requested action.
	ErrForbidden = errors.New("forbidden")

	// ErrUnsupportedType indicates an unknown container type was requested.
	ErrUnsupportedType = errors.New("unsupported type")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// codedError attaches an externally meaningful numeric code to an error chain.
// The API contract preserves these codes end-to-end so that clients can tell,
// for example, a policy denial (303) from a missing container (601).
type codedError struct {
	code int
	err  error
}

func (c *codedError) Error() string { return c.err.Error() }

func (c *codedError) Unwrap() error { return c.err }

// WithCode wraps an error with a numeric API code. The code is retrievable
// with CodeOf anywhere in the chain; errors.Is/As keep working through it.
func WithCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &codedError{code: code, err: err}
}

// CodeOf returns the first numeric API code found in the error chain.
func CodeOf(err error) (int, bool) {
	var coded *codedError
	if errors.As(err, &coded) {
		return coded.code, true
	}
	return 0, false
}
