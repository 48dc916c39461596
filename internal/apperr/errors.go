// Package apperr defines the gateway failure taxonomy. Handlers classify
// errors with errors.Is against the sentinel kinds and surface Error() as
// the user-facing message.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Every failure the gateway reports wraps exactly one of these.
var (
	// ErrProcess: the tool subprocess could not start or timed out.
	ErrProcess = errors.New("process error")
	// ErrAuth: a write was attempted without a usable API token, or the
	// native API rejected the token.
	ErrAuth = errors.New("auth error")
	// ErrUnreachable: the native API connection could not be established.
	ErrUnreachable = errors.New("unreachable")
	// ErrRemote: the native API answered with a non-success status.
	ErrRemote = errors.New("remote error")
	// ErrValidation: a required request parameter is missing or empty.
	ErrValidation = errors.New("validation error")
)

// Error couples a user-facing message with a sentinel kind and, for tool
// failures, the subprocess stderr captured for diagnostics.
type Error struct {
	Kind   error
	Msg    string
	Stderr string
}

// Error returns the user-facing message only; the kind and stderr travel
// separately in the response envelope.
func (e *Error) Error() string { return e.Msg }

// Unwrap exposes the sentinel kind to errors.Is.
func (e *Error) Unwrap() error { return e.Kind }

// New builds a classified error with a fixed message.
func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds a classified error with a formatted message.
func Newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WithStderr builds a classified error carrying captured subprocess stderr.
func WithStderr(kind error, msg, stderr string) *Error {
	return &Error{Kind: kind, Msg: msg, Stderr: stderr}
}
