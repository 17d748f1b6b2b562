// Package errors provides the structured error type used across the service.
// Every error that reaches an HTTP client is rendered in the OpenAI-compatible
// envelope {"error": {"message", "type", "param", "code"}}.
package errors
