package transcription

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/735726032/openai-SenseVoice/errors"
	"github.com/735726032/openai-SenseVoice/logger"
	"github.com/735726032/openai-SenseVoice/observability"
)

// Service runs the full transcription pipeline for a request.
type Service struct {
	temp    *TempFileManager
	invoker *Invoker
	metrics *observability.TranscriptionMetrics
	log     *logger.Logger
}

// NewService assembles a Service. metrics may be nil.
func NewService(temp *TempFileManager, invoker *Invoker, metrics *observability.TranscriptionMetrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{temp: temp, invoker: invoker, metrics: metrics, log: log}
}

// Transcribe validates req and transcribes its files in order. Nothing is
// written to disk unless the whole request validates, and the first
// failing file aborts the request.
func (s *Service) Transcribe(ctx context.Context, req TranscriptionRequest) ([]TranscriptionResult, error) {
	start := time.Now()
	log := s.log.WithContext(ctx)

	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe)
	span.SetAttributes(
		attribute.Int(observability.AttrFileCount, len(req.Files)),
		attribute.String(observability.AttrModel, req.Model),
		attribute.String(observability.AttrResponseFormat, req.ResponseFormat),
	)

	results, err := s.transcribe(ctx, log, req)

	status := "ok"
	if err != nil {
		status = "error"
		if appErr, ok := errors.AsAppError(err); ok {
			s.metrics.RecordError(ctx, string(appErr.Code), stageOf(appErr))
		}
	}
	s.metrics.RecordRequest(ctx, req.ResponseFormat, status, len(req.Files), time.Since(start))
	observability.EndSpan(span, err)

	if err == nil {
		log.Info("Transcription completed", logger.Fields(
			"files", len(results),
			"response_format", req.ResponseFormat,
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
	}
	return results, err
}

func (s *Service) transcribe(ctx context.Context, log *logger.Logger, req TranscriptionRequest) ([]TranscriptionResult, error) {
	if len(req.Files) == 0 {
		return nil, errors.MissingField(ParamFiles, "At least one audio file is required.")
	}

	if err := ValidateRequest(req); err != nil {
		fields := map[string]interface{}{}
		if appErr, ok := errors.AsAppError(err); ok {
			fields = logger.Fields("param", appErr.Param, "value", appErr.Details["value"])
		}
		log.Warn("Rejected transcription request", fields)
		return nil, err
	}

	language := LanguageAuto
	if req.Language != nil {
		language = *req.Language
	}

	results := make([]TranscriptionResult, 0, len(req.Files))
	for _, file := range req.Files {
		res, err := s.transcribeFile(ctx, file, language, req)
		if err != nil {
			log.Error("Transcription failed", logger.Err(err, logger.FieldFilename, file.Filename))
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *Service) transcribeFile(ctx context.Context, file UploadedFile, language string, req TranscriptionRequest) (TranscriptionResult, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanFile)
	span.SetAttributes(attribute.String(observability.AttrFilename, file.Filename))

	var out TranscriptionResult
	err := s.temp.WithTempFile(ctx, file, GetExtension(file.Filename), func(path string) error {
		raw, err := s.invoker.Invoke(ctx, path, language, req.Verbose())
		if err != nil {
			return err
		}

		out = TranscriptionResult{Filename: file.Filename, Text: CleanTranscript(raw.Text)}
		if req.Verbose() {
			out.Language = DetectLanguage(raw.Text)
			if out.Language == "" {
				out.Language = language
			}
			out.Segments = FormatSegments(raw.Segments, req.IncludeWords())
		}
		return nil
	})
	if err != nil {
		if _, ok := errors.AsAppError(err); !ok {
			err = errors.Processing(file.Filename, err)
		}
	}
	observability.EndSpan(span, err)
	return out, err
}

func stageOf(e *errors.AppError) string {
	switch e.Code {
	case errors.ErrCodeProcessing:
		return "inference"
	case errors.ErrCodeInvalidInput, errors.ErrCodeMissingField:
		return "validation"
	default:
		return "other"
	}
}
