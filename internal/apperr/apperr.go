// Package apperr defines the error taxonomy shared by every service in
// the module: validation, not-found, authorization and timeout failures.
// Errors are surfaced to the caller unmodified; no layer retries or
// swallows them.
package apperr

import (
	"context"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation covers malformed or empty input, duplicate names and
	// invalid enum values.
	KindValidation
	// KindNotFound means the referenced id does not exist at all.
	KindNotFound
	// KindAuthorization means the id exists but is not owned by the caller.
	KindAuthorization
	// KindTimeout means a persistence call exceeded its deadline.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindTimeout:
		return "timeout"
	}
	return "unknown"
}

// Error carries a taxonomy kind alongside the underlying cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Err: errors.Errorf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Err: errors.Errorf(format, args...)}
}

func Authorization(format string, args ...interface{}) error {
	return &Error{Kind: KindAuthorization, Err: errors.Errorf(format, args...)}
}

func Timeout(format string, args ...interface{}) error {
	return &Error{Kind: KindTimeout, Err: errors.Errorf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error, keeping the
// cause reachable through errors.Is/As.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: errors.Wrap(err, msg)}
}

// KindOf extracts the taxonomy kind from an error chain. Deadline
// expiry from the persistence layer classifies as KindTimeout even when
// nothing tagged it explicitly.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUnknown
}

func IsValidation(err error) bool    { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool      { return KindOf(err) == KindNotFound }
func IsAuthorization(err error) bool { return KindOf(err) == KindAuthorization }
func IsTimeout(err error) bool       { return KindOf(err) == KindTimeout }
