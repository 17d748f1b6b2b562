// Package endpoint provides the unauthenticated operational endpoints:
// health, readiness, liveness and version.
package endpoint
