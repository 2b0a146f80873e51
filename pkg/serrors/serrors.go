// Package serrors attaches a semantic kind to errors so transports can map
// failures to status codes without knowing where they came from.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a semantic error category. Only this package creates kinds.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// The kind names double as the API error codes.
var (
	ErrNotFound     Kind = kind{"NOT_FOUND"}
	ErrUnauthorized Kind = kind{"UNAUTHORIZED"}
	ErrForbidden    Kind = kind{"FORBIDDEN"}
	ErrBadRequest   Kind = kind{"BAD_REQUEST"}
	// ErrConflict covers duplicate hostnames and stale versions.
	ErrConflict    Kind = kind{"CONFLICT"}
	ErrInternal    Kind = kind{"INTERNAL"}
	ErrTimeout     Kind = kind{"TIMEOUT"}
	ErrUnavailable Kind = kind{"UNAVAILABLE"}
	// ErrRateLimited marks a provider or client budget that ran out.
	ErrRateLimited Kind = kind{"RATE_LIMITED"}
	// ErrRejected is a permanent refusal from a certificate provider.
	ErrRejected Kind = kind{"REJECTED"}
	// ErrBlacklisted is returned for hostnames an operator blocked.
	ErrBlacklisted Kind = kind{"BLACKLISTED"}
)

// KindOf returns the first kind in err's chain, or nil.
func KindOf(err error) Kind {
	var k Kind
	if errors.As(err, &k) {
		return k
	}

	return nil
}

// IsKind reports whether err carries any of kinds.
func IsKind(err error, kinds ...Kind) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}

	return false
}

// Error carries a kind, an optional cause and a message safe to show callers.
// errors.Is and errors.As match both the kind and the cause.
type Error struct {
	kind Kind
	err  error
	msg  string
}

func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

func (e *Error) Error() string {
	switch {
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		return e.kind.Error()
	}
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Is(target error) bool {
	return errors.Is(e.kind, target) || (e.err != nil && errors.Is(e.err, target))
}

func (e *Error) As(target any) bool {
	return errors.As(e.kind, target) || (e.err != nil && errors.As(e.err, target))
}

func (e *Error) Kind() Kind { return e.kind }

// Message is the text given to With or Wrap, without the cause.
func (e *Error) Message() string { return e.msg }
