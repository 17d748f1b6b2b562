package errors

// ErrorCode represents a machine-readable error code. It is used for logging
// and metrics; clients see the HTTP status and the error type instead.
type ErrorCode string

// Request errors
const (
	// ErrCodeInvalidInput indicates a request parameter failed validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required request field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeRequestTooLarge indicates the request body exceeded the configured limit.
	ErrCodeRequestTooLarge ErrorCode = "REQUEST_TOO_LARGE"
)

// Authentication errors
const (
	// ErrCodeUnauthorized indicates missing or incorrect credentials.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// Internal errors
const (
	// ErrCodeProcessing indicates the model or the filesystem failed while transcribing.
	ErrCodeProcessing ErrorCode = "PROCESSING_ERROR"
	// ErrCodeInternal indicates an unexpected server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeServiceUnavailable indicates a dependency such as the model backend is down.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// Error types as exposed in the response envelope.
const (
	TypeInvalidRequest = "invalid_request_error"
	TypeServer         = "server_error"
)

// typeForCode maps an ErrorCode to the client-facing error type.
func typeForCode(code ErrorCode) string {
	switch code {
	case ErrCodeInvalidInput, ErrCodeMissingField, ErrCodeRequestTooLarge, ErrCodeUnauthorized:
		return TypeInvalidRequest
	default:
		return TypeServer
	}
}
