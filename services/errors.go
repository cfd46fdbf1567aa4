package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service error so the HTTP error handler can pick a
// status code without string matching. Messages on these errors are safe
// to return to callers; underlying driver errors are wrapped and only
// ever logged server-side.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthorization
	KindNotFound
	KindConflict
	KindPersistence
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Public reports the caller-safe message for err, or empty when err is not
// a service error.
func (e *Error) Public() string { return e.Message }

func newErr(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationErr(format string, args ...any) *Error {
	return newErr(KindValidation, format, args...)
}

func notFoundErr(format string, args ...any) *Error {
	return newErr(KindNotFound, format, args...)
}

func conflictErr(format string, args ...any) *Error {
	return newErr(KindConflict, format, args...)
}

// persistenceErr wraps an infrastructural database failure. The wrapped
// error stays server-side; callers see only the message.
func persistenceErr(err error, format string, args ...any) *Error {
	return &Error{Kind: KindPersistence, Message: fmt.Sprintf(format, args...), Err: err}
}

// AsServiceError unwraps err to *Error if one is in the chain.
func AsServiceError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsKind reports whether err carries the given service error kind.
func IsKind(err error, kind Kind) bool {
	if se, ok := AsServiceError(err); ok {
		return se.Kind == kind
	}
	return false
}
