package xtream

import (
	"errors"
	"fmt"
)

// Kind classifies an API failure. Callers match on the kind instead of
// inspecting error strings or status codes directly.
type Kind int

const (
	// KindUnknown is the zero value; it is never produced by this package.
	KindUnknown Kind = iota

	// KindInvalidArgument means the caller passed a malformed value
	// (bad URL, non-positive id, unsupported output type). Detected
	// before any network call.
	KindInvalidArgument

	// KindAuthenticationFailed means the panel rejected the credentials
	// (auth=0 in the response, or HTTP 444 for banned accounts).
	KindAuthenticationFailed

	// KindNotFound means the panel returned HTTP 404, typically because
	// the server does not expose the requested endpoint.
	KindNotFound

	// KindServiceUnavailable means HTTP 503 surfaced after retry exhaustion.
	KindServiceUnavailable

	// KindRequestFailed covers any other non-2xx status or a network-level
	// failure. StatusCode is zero for network failures.
	KindRequestFailed

	// KindMalformedResponse means the response decoded but lacked an
	// expected field or shape.
	KindMalformedResponse
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindAuthenticationFailed:
		return "authentication failed"
	case KindNotFound:
		return "not found"
	case KindServiceUnavailable:
		return "service unavailable"
	case KindRequestFailed:
		return "request failed"
	case KindMalformedResponse:
		return "malformed response"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by this package.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// StatusCode is the HTTP status code, if the panel responded.
	StatusCode int

	// Message describes the failure.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// newError creates an Error with the given kind and message.
func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapError creates an Error wrapping an underlying cause.
func wrapError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// statusError creates an Error carrying an HTTP status code.
func statusError(kind Kind, statusCode int, message string) *Error {
	return &Error{Kind: kind, StatusCode: statusCode, Message: message}
}

// KindOf returns the kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is an *Error with the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
