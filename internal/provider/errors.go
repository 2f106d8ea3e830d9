package provider

import (
	"errors"
	"fmt"
	"time"
)

// Error classes. Every *Error matches exactly one of them with errors.Is.
var (
	ErrTransport = errors.New("transport error")
	ErrProtocol  = errors.New("protocol error")
	ErrAuth      = errors.New("authentication error")
)

// ErrorCode represents a provider error code.
type ErrorCode string

const (
	ErrorCodeAuth           ErrorCode = "authentication_failed"
	ErrorCodePermission     ErrorCode = "permission_denied"
	ErrorCodeRateLimit      ErrorCode = "rate_limit"
	ErrorCodeUnavailable    ErrorCode = "service_unavailable"
	ErrorCodeNetwork        ErrorCode = "network_error"
	ErrorCodeTimeout        ErrorCode = "timeout"
	ErrorCodeInvalidRequest ErrorCode = "invalid_request"
	ErrorCodeMalformed      ErrorCode = "malformed_response"
	ErrorCodeEmptyResponse  ErrorCode = "empty_response"
	ErrorCodeContentBlocked ErrorCode = "content_blocked"
)

// Class returns the error class sentinel for the code.
func (c ErrorCode) Class() error {
	switch c {
	case ErrorCodeAuth, ErrorCodePermission:
		return ErrAuth
	case ErrorCodeMalformed, ErrorCodeEmptyResponse, ErrorCodeContentBlocked:
		return ErrProtocol
	default:
		return ErrTransport
	}
}

// Error wraps errors with additional context.
type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int // HTTP status when known
	Underlying error
	Retryable  bool
	RetryAfter *time.Duration
	Attempts   int // set by Client on the error it finally returns
}

// Kind returns the taxonomy name of the error class.
func (e *Error) Kind() string {
	switch e.Code.Class() {
	case ErrAuth:
		return "AuthError"
	case ErrProtocol:
		return "ProtocolError"
	default:
		return "TransportError"
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Attempts > 1 {
		msg = fmt.Sprintf("%s after %d attempts", msg, e.Attempts)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind(), msg, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind(), msg)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is matches the error's class sentinel.
func (e *Error) Is(target error) bool {
	return target == e.Code.Class()
}

// IsRetryable returns true if the error is retryable.
func IsRetryable(err error) bool {
	var providerErr *Error
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}
	return false
}

// GetRetryAfter returns the retry-after duration if present.
func GetRetryAfter(err error) *time.Duration {
	var providerErr *Error
	if errors.As(err, &providerErr) {
		return providerErr.RetryAfter
	}
	return nil
}

// FromStatus classifies an HTTP failure status. 401 and 403 are
// authentication failures, 408, 429 and 5xx are retryable, and any other
// status is a permanent transport failure.
func FromStatus(status int, message string, cause error) *Error {
	e := &Error{StatusCode: status, Message: message, Underlying: cause}
	switch {
	case status == 401:
		e.Code = ErrorCodeAuth
	case status == 403:
		e.Code = ErrorCodePermission
	case status == 429:
		e.Code, e.Retryable = ErrorCodeRateLimit, true
	case status == 408:
		e.Code, e.Retryable = ErrorCodeTimeout, true
	case status >= 500:
		e.Code, e.Retryable = ErrorCodeUnavailable, true
	default:
		e.Code = ErrorCodeInvalidRequest
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("HTTP %d", status)
	}
	return e
}

// Malformed returns a protocol error for a response that cannot be used.
func Malformed(format string, args ...any) *Error {
	return &Error{Code: ErrorCodeMalformed, Message: fmt.Sprintf(format, args...)}
}
