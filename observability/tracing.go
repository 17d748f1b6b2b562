package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/735726032/openai-SenseVoice"

// Span names.
const (
	SpanTranscribe = "transcription.transcribe"
	SpanFile       = "transcription.file"
	SpanInference  = "transcription.inference"
)

// Attribute keys.
const (
	AttrServiceName    = "service.name"
	AttrRequestID      = "request.id"
	AttrFilename       = "transcription.filename"
	AttrFileCount      = "transcription.file_count"
	AttrLanguage       = "transcription.language"
	AttrModel          = "transcription.model"
	AttrResponseFormat = "transcription.response_format"
	AttrBackend        = "transcription.backend"
)

// StartSpan starts a span on the service tracer from the global provider.
// Without InitTracer the span is a no-op.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, opts...)
}

// EndSpan marks span failed when err is set, then ends it.
func EndSpan(span trace.Span, err error) {
	markError(span, err)
	span.End()
}

// SetSpanError marks the span carried by ctx failed.
func SetSpanError(ctx context.Context, err error) {
	markError(trace.SpanFromContext(ctx), err)
}

func markError(span trace.Span, err error) {
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
