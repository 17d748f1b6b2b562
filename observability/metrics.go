package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// TranscriptionMetrics holds the instruments recorded by the transcription pipeline.
type TranscriptionMetrics struct {
	requestTotal      metric.Int64Counter
	requestDuration   metric.Float64Histogram
	filesTotal        metric.Int64Counter
	inferenceDuration metric.Float64Histogram
	inferenceActive   metric.Int64UpDownCounter
	queueWait         metric.Float64Histogram
	errorTotal        metric.Int64Counter
}

// NewTranscriptionMetrics creates metric instruments on the given meter.
func NewTranscriptionMetrics(meter metric.Meter) (*TranscriptionMetrics, error) {
	m := &TranscriptionMetrics{}
	var err error

	if m.requestTotal, err = meter.Int64Counter("transcription.requests",
		metric.WithDescription("Transcription requests by response format and outcome"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.requests counter: %w", err)
	}
	if m.requestDuration, err = meter.Float64Histogram("transcription.request.duration",
		metric.WithDescription("End-to-end transcription request duration"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.request.duration histogram: %w", err)
	}
	if m.filesTotal, err = meter.Int64Counter("transcription.files",
		metric.WithDescription("Audio files transcribed"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.files counter: %w", err)
	}
	if m.inferenceDuration, err = meter.Float64Histogram("transcription.inference.duration",
		metric.WithDescription("Model inference duration per file"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.inference.duration histogram: %w", err)
	}
	if m.inferenceActive, err = meter.Int64UpDownCounter("transcription.inference.active",
		metric.WithDescription("Inference calls currently holding a worker slot"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.inference.active counter: %w", err)
	}
	if m.queueWait, err = meter.Float64Histogram("transcription.queue.wait",
		metric.WithDescription("Time spent waiting for a worker slot"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.queue.wait histogram: %w", err)
	}
	if m.errorTotal, err = meter.Int64Counter("transcription.errors",
		metric.WithDescription("Transcription errors by code"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.errors counter: %w", err)
	}
	return m, nil
}

// NopTranscriptionMetrics returns instruments backed by the global provider,
// which is a no-op until InitMeter runs.
func NopTranscriptionMetrics() *TranscriptionMetrics {
	m, err := NewTranscriptionMetrics(Meter(instrumentationName))
	if err != nil {
		// The global delegating meter never fails instrument creation.
		panic(err)
	}
	return m
}

// RecordRequest records a completed transcription request.
func (m *TranscriptionMetrics) RecordRequest(ctx context.Context, format, status string, files int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("response_format", format),
		attribute.String("status", status),
	)
	m.requestTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, duration.Seconds(), attrs)
	if status == "ok" {
		m.filesTotal.Add(ctx, int64(files))
	}
}

// RecordInference records one model invocation.
func (m *TranscriptionMetrics) RecordInference(ctx context.Context, language, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.inferenceDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("language", language),
		attribute.String("status", status),
	))
}

// SlotAcquired records the queue wait and marks one inference active.
func (m *TranscriptionMetrics) SlotAcquired(ctx context.Context, waited time.Duration) {
	if m == nil {
		return
	}
	m.queueWait.Record(ctx, waited.Seconds())
	m.inferenceActive.Add(ctx, 1)
}

// SlotReleased marks one inference finished.
func (m *TranscriptionMetrics) SlotReleased(ctx context.Context) {
	if m == nil {
		return
	}
	m.inferenceActive.Add(ctx, -1)
}

// RecordError records an error by machine code and stage.
func (m *TranscriptionMetrics) RecordError(ctx context.Context, code, stage string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("stage", stage),
	))
}
