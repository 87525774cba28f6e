// Package apperror defines the error kinds shared by the Scheduling API and
// its clients. Server handlers turn a Kind into an HTTP status and the client
// turns the status back into the same Kind, so callers on both sides branch on
// one vocabulary.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindTransport
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is a classified failure. Fields carries per-field messages for
// validation failures; Timeout marks transport failures caused by a deadline.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Timeout bool
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

// ValidationFields builds a validation error carrying one message per field.
func ValidationFields(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func Transport(message string, err error) *Error {
	return Wrap(KindTransport, message, err)
}

func Timeout(message string, err error) *Error {
	e := Wrap(KindTransport, message, err)
	e.Timeout = true
	return e
}

// KindOf reports the kind of the first *Error in err's chain. Unclassified
// errors are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsValidation(err error) bool { return err != nil && KindOf(err) == KindValidation }

func IsConflict(err error) bool { return err != nil && KindOf(err) == KindConflict }

func IsNotFound(err error) bool { return err != nil && KindOf(err) == KindNotFound }

func IsTransport(err error) bool { return err != nil && KindOf(err) == KindTransport }

func IsUnauthorized(err error) bool { return err != nil && KindOf(err) == KindUnauthorized }

func IsForbidden(err error) bool { return err != nil && KindOf(err) == KindForbidden }

// IsTimeout reports whether err is a transport failure caused by a deadline.
func IsTimeout(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == KindTransport && appErr.Timeout
	}
	return false
}
