package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Type is the client-facing error category (e.g. "invalid_request_error").
	Type string `json:"type"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Param names the offending request parameter, if any.
	Param string `json:"param,omitempty"`
	// HTTPStatus is the HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Headers are extra response headers, e.g. an authentication challenge.
	Headers map[string]string `json:"-"`
	// Details contains additional context for logging.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithHeader sets a response header and returns the receiver.
func (e *AppError) WithHeader(key, value string) *AppError {
	if e.Headers == nil {
		e.Headers = make(map[string]string)
	}
	e.Headers[key] = value
	return e
}

// New creates a new AppError. The client-facing type is derived from code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Type:       typeForCode(code),
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// --- Common Error Constructors ---

// InvalidParam creates a 400 error for a request parameter outside its supported values.
func InvalidParam(param, message string) *AppError {
	e := New(ErrCodeInvalidInput, message, http.StatusBadRequest)
	e.Param = param
	return e
}

// MissingField creates a 400 error for a missing required request field.
func MissingField(field, message string) *AppError {
	if message == "" {
		message = fmt.Sprintf("Missing required field: %s", field)
	}
	e := New(ErrCodeMissingField, message, http.StatusBadRequest)
	e.Param = field
	return e
}

// Validation creates a 400 error that is not tied to a single parameter.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// Unauthorized creates a 401 error for a bearer-token challenge.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Incorrect API key"
	}
	e := New(ErrCodeUnauthorized, reason, http.StatusUnauthorized)
	e.Param = "Authorization"
	return e.WithHeader("WWW-Authenticate", "Bearer")
}

// RequestTooLarge creates a 413 error for an oversized request body.
func RequestTooLarge(limit string) *AppError {
	e := New(ErrCodeRequestTooLarge, fmt.Sprintf("Request body exceeds the %s limit.", limit), http.StatusRequestEntityTooLarge)
	return e.WithDetail("limit", limit)
}

// Processing creates a 500 error for a model or filesystem failure while
// transcribing the named file.
func Processing(filename string, cause error) *AppError {
	e := New(ErrCodeProcessing, fmt.Sprintf("Failed to transcribe %s.", filename), http.StatusInternalServerError)
	e.Cause = cause
	return e.WithDetail("filename", filename)
}

// ServiceUnavailable creates a 503 error for a dependency that is down.
func ServiceUnavailable(service string) *AppError {
	e := New(ErrCodeServiceUnavailable, fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service), http.StatusServiceUnavailable)
	return e.WithDetail("service", service)
}

// Internal creates a 500 error for an unexpected failure.
func Internal(cause error) *AppError {
	e := New(ErrCodeInternal, "An unexpected error occurred. Please try again or contact support.", http.StatusInternalServerError)
	e.Cause = cause
	return e
}
