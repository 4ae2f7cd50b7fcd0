package shipper

import (
	"errors"
	"fmt"
)

// TransportError represents a failed exchange with a carrier endpoint.
type TransportError struct {
	Carrier    string
	Code       string
	Message    string
	StatusCode int
	Retryable  bool
	Body       []byte
	Cause      error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s transport error (%s): %s: %v", e.Carrier, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s transport error (%s): %s", e.Carrier, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for TransportError.
func (e *TransportError) Is(target error) bool {
	t, ok := target.(*TransportError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewTransportError creates a new TransportError.
func NewTransportError(carrier, code, message string) *TransportError {
	return &TransportError{
		Carrier: carrier,
		Code:    code,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *TransportError) WithCause(err error) *TransportError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *TransportError) WithStatusCode(code int) *TransportError {
	e.StatusCode = code
	return e
}

// WithBody keeps the response body that came with the failure.
func (e *TransportError) WithBody(body []byte) *TransportError {
	e.Body = body
	return e
}

// WithRetryable marks the error as retryable.
func (e *TransportError) WithRetryable(retryable bool) *TransportError {
	e.Retryable = retryable
	return e
}

// RequiredFieldError is returned by Create methods when the payload lacks a
// field the carrier's wire format mandates.
type RequiredFieldError struct {
	Field string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("required field missing: %s", e.Field)
}

// Is makes errors.Is(err, ErrRequiredField) hold.
func (e *RequiredFieldError) Is(target error) bool {
	return target == ErrRequiredField
}

// NewRequiredFieldError creates a RequiredFieldError for field.
func NewRequiredFieldError(field string) *RequiredFieldError {
	return &RequiredFieldError{Field: field}
}

// ParseError reports a response payload that could not be structurally parsed.
type ParseError struct {
	Carrier   string
	Operation string
	Cause     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %s: malformed response: %v", e.Carrier, e.Operation, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrMalformedResponse) hold.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// NewParseError creates a ParseError.
func NewParseError(carrier, operation string, cause error) *ParseError {
	return &ParseError{Carrier: carrier, Operation: operation, Cause: cause}
}

// Sentinel errors.
var (
	// ErrRequiredField indicates a request payload is missing a mandatory field.
	ErrRequiredField = errors.New("required field missing")

	// ErrMalformedResponse indicates a carrier payload could not be parsed.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrOperationNotSupported indicates the carrier does not offer the operation.
	ErrOperationNotSupported = errors.New("operation not supported")

	// ErrStepSkipped is returned by a pipeline step builder whose inputs are unavailable.
	ErrStepSkipped = errors.New("pipeline step skipped")

	// ErrServiceUnavailable indicates the carrier service is temporarily unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrAuthenticationFailed indicates carrier authentication failed.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrRateLimitExceeded indicates the carrier rate limit was exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrCarrierNotFound indicates the requested carrier is not registered.
	ErrCarrierNotFound = errors.New("carrier not found")

	// ErrInvalidSettings indicates a Settings value of the wrong carrier type.
	ErrInvalidSettings = errors.New("invalid carrier settings")
)

// IsRetryable returns true if the error is retryable.
func IsRetryable(err error) bool {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Retryable
	}
	return errors.Is(err, ErrServiceUnavailable) || errors.Is(err, ErrRateLimitExceeded)
}

// NotSupported builds the error returned for an operation a carrier lacks.
func NotSupported(carrier, operation string) error {
	return fmt.Errorf("%s: %s: %w", carrier, operation, ErrOperationNotSupported)
}
