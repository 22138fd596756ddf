package services

import (
	"errors"
	"fmt"
)

// Kind classifies service failures. Handlers map kinds onto status codes.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindValidation
	KindConflict
	KindOperational
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindOperational:
		return "operational"
	}
	return "unknown"
}

// Error is the single failure type returned by services. Message is safe to
// show to clients; Err keeps the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrValidation  = &Error{Kind: KindValidation}
	ErrConflict    = &Error{Kind: KindConflict}
	ErrOperational = &Error{Kind: KindOperational}
)

func notFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func invalid(msg string, details any) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

func conflict(msg string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: cause}
}

// operational hides cause behind a generic message.
func operational(cause error) *Error {
	return &Error{Kind: KindOperational, Message: "Unexpected Error", Err: cause}
}

// KindOf returns the kind of err, treating foreign errors as operational.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindOperational
}

// asServiceError passes *Error values through and wraps anything else as operational.
func asServiceError(err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return operational(err)
}
