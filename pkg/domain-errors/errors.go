// Package domainerrors defines the closed set of error codes the core can
// surface. Handlers match on codes, never on message text, so the boundary
// mapping to HTTP stays deterministic.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	// CodeInvalidInput marks malformed or contradictory arguments caught
	// before any mutation.
	CodeInvalidInput Code = "invalid_input"
	// CodeMalformedID marks an identifier that fails basic shape checks.
	CodeMalformedID Code = "malformed_identifier"
	// CodeNotFound marks a referenced entity that does not exist.
	CodeNotFound Code = "resource_not_found"
	// CodeInvalidState marks an operation attempted against an entity not in
	// the required lifecycle state.
	CodeInvalidState Code = "invalid_state"
	// CodeCapacityExhausted marks a transit open rejected because the
	// facility has no free slots.
	CodeCapacityExhausted Code = "capacity_exhausted"
	// CodeConflict marks a write that would violate a uniqueness guarantee.
	CodeConflict Code = "conflict"
	// CodeUnauthorized marks missing or invalid caller credentials.
	CodeUnauthorized Code = "unauthorized"
	// CodeBadRequest marks a request the transport layer could not decode.
	CodeBadRequest Code = "bad_request"
	// CodeTimeout marks a unit of work aborted by context cancellation.
	CodeTimeout Code = "timeout"
	// CodeInternal marks a storage or unclassified internal failure. Callers
	// must not depend on the underlying error text.
	CodeInternal Code = "server_error"
)

// Error carries a code plus a payload message and optionally wraps a cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause. If the cause is
// already a domain error its code is replaced but the chain is preserved.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		de = nil
	}
	return false
}

// CodeOf extracts the outermost code, defaulting to CodeInternal for
// unclassified errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the outermost payload message. Unclassified errors map to
// a generic message so storage error text never leaks to callers.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}

// ToHTTPStatus maps each code to a status class for the transport boundary.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeMalformedID, CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidState, CodeConflict, CodeCapacityExhausted:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
