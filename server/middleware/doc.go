// Package middleware holds the HTTP middleware of the transcription server.
//
// Server-level middleware (Recovery, RequestID, CORS, BodySizeLimit,
// RequestLogger) has the net/http signature and wraps the whole mux.
// APIKeyAuth is a Gin handler applied to the authenticated route group.
// Every rejection is rendered in the OpenAI error envelope.
package middleware
