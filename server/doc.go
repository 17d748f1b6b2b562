// Package server provides the HTTP server of the transcription service: a
// Gin engine on a ServeMux served over HTTP/1.1 and h2c, with lifecycle
// management through the component package.
//
// # Middleware
//
// Server-level middleware (server/middleware), outermost first:
//
//   - Recovery: panics become a 500 server_error
//   - RequestID: X-Request-Id generation and propagation into the logger
//   - CORS: cross-origin headers and preflight
//   - BodySizeLimit: upload cap, 413 on overflow
//   - RequestLogger: method, path, status and duration
//
// APIKeyAuth guards the /v1 route group.
//
// # Endpoints
//
// Built-in endpoints (server/endpoint), unauthenticated:
//
//   - /health: component health aggregation
//   - /ready: readiness probe, 503 while the model backend is down
//   - /alive: liveness probe
//   - /version: build version information
//
// All error responses use the OpenAI envelope rendered by RespondWithError.
package server
