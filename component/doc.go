// Package component defines lifecycle-managed parts of the service.
//
// A Component is started once at boot in registration order, reports its
// health to /health and /ready while serving, and is stopped in reverse
// order at shutdown. The model handle, the HTTP server and the telemetry
// exporters are all components.
package component
