package booking

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError signals bad input or an illegal state transition. It is
// always recoverable and user-facing; it must never be retried.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, "; ")
}

// NewValidationError builds a ValidationError from one or more messages.
func NewValidationError(msgs ...string) error {
	return &ValidationError{Errors: msgs}
}

// ServerError signals a collaborator I/O failure. It is surfaced to the
// caller with its message; transient instances may be retried.
type ServerError struct {
	Op  string
	Err error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServerError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
