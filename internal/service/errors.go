package service

import (
	"errors"
	"fmt"
)

// Domain errors surfaced to the HTTP layer. Their texts end up in flash
// messages, so they are phrased for end users.
var (
	// ErrInvalidCredentials deliberately covers both "no such user" and
	// "wrong password" so a caller cannot tell which one occurred.
	ErrInvalidCredentials = errors.New("invalid login attempt")

	ErrUsernameTaken = errors.New("there is already a user with that username")
	ErrEmailTaken    = errors.New("there is already a user with that email address")

	ErrSnippetNotFound = errors.New("the snippet could not be found")

	// ErrSnippetConflict is the optimistic-concurrency outcome: the row exists
	// but the update changed nothing, so the caller's view was stale.
	ErrSnippetConflict = errors.New("the snippet you attempted to update was changed or removed by another user after you got the original values")
)

// ValidationError reports a bad or missing field on user input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
