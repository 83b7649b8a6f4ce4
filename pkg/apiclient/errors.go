package apiclient

import (
	"errors"
	"fmt"
)

const (
	// CodeServerUnreachable marks failures where the API itself never
	// answered: a proxy error page or a failed connection.
	CodeServerUnreachable = "server_unreachable"
	CodeUnknown           = "unknown_error"

	MessageServerUnreachable = "Unable to reach the server. Please try again later."
	DefaultErrorMessage      = "Something went wrong"
)

var (
	ErrEncodeBody     = errors.New("apiclient.encode_body")
	ErrDecodeResponse = errors.New("apiclient.decode_response")
	ErrNoRefreshToken = errors.New("apiclient.no_refresh_token")
)

// Error is a structured failure returned by the API for a non-2xx response.
type Error struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Status  int               `json:"status"`
	Details map[string]string `json:"details,omitempty"`
	// RequestID is the id the API echoed, for matching server logs.
	RequestID string `json:"request_id,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("api %d %s: %s", e.Status, e.Code, e.Message)
}

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "api unreachable: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Code() string { return CodeServerUnreachable }

func (e *TransportError) Message() string { return MessageServerUnreachable }

// AsError extracts a structured API error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsError reports whether err carries a structured API error.
func IsError(err error) bool {
	_, ok := AsError(err)
	return ok
}

// IsUnreachable reports whether err means the API could not be reached,
// either at the transport level or behind a proxy error page.
func IsUnreachable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return true
	}
	apiErr, ok := AsError(err)
	return ok && apiErr.Code == CodeServerUnreachable
}

// HasStatus reports whether err is an API error with the given status.
func HasStatus(err error, status int) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Status == status
}

// ErrorMessage returns a message suitable for showing to a user: the API
// message for structured errors, the fixed unreachable message for transport
// failures, the error text for anything else, and fallback (default
// DefaultErrorMessage) when that leaves nothing.
func ErrorMessage(err error, fallback ...string) string {
	fb := DefaultErrorMessage
	if len(fallback) > 0 && fallback[0] != "" {
		fb = fallback[0]
	}
	if err == nil {
		return fb
	}

	var msg string
	var te *TransportError
	if apiErr, ok := AsError(err); ok {
		msg = apiErr.Message
	} else if errors.As(err, &te) {
		msg = te.Message()
	} else {
		msg = err.Error()
	}

	if msg == "" {
		return fb
	}
	return msg
}
