package calculator

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid input")
)

// Error is a failed calculation that is caused by the input data, not by
// the database. Kind is either ErrNotFound or ErrValidation.
type Error struct {
	Kind    error
	Message string // Short description of the problem
	Details string // Names the offending units and values, if any
}

func (e *Error) Error() string {
	if e.Details == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func notFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func invalid(message, details string) *Error {
	return &Error{Kind: ErrValidation, Message: message, Details: details}
}
