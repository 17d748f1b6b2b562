// Package observability exports traces and metrics over OTLP/HTTP.
//
// Component installs the global tracer and meter providers on Start when
// observability.enabled is set and flushes them on Stop. Until then spans
// and instruments are no-ops, so the transcription pipeline records
// unconditionally:
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanInference)
//	defer func() { observability.EndSpan(span, err) }()
//
//	m, err := observability.NewTranscriptionMetrics(observability.Meter("sensevoice-server"))
//	m.RecordInference(ctx, "en", "ok", elapsed)
package observability
