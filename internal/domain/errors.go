package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service either wraps one of these or
// is treated as an internal failure.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
)

// Error carries a caller-facing message together with its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Invalidf builds an ErrInvalidArgument error with a formatted reason.
func Invalidf(format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}
