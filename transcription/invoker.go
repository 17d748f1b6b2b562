package transcription

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/735726032/openai-SenseVoice/logger"
	"github.com/735726032/openai-SenseVoice/observability"
	"github.com/735726032/openai-SenseVoice/resilience"
)

// Fixed inference parameters.
const (
	batchSizeSeconds   = 60
	mergeLengthSeconds = 15
)

// ErrEmptyResult is returned when the model produced no result record.
var ErrEmptyResult = stderrors.New("model returned no results")

// InvokerConfig configures model invocation.
type InvokerConfig struct {
	// MaxThreads caps concurrent inference calls. Extra callers queue.
	MaxThreads int
	// Reentrant is false when the model must not be called concurrently.
	Reentrant bool
	// CacheInvoke is forwarded to the model on every call.
	CacheInvoke bool
}

// Invoker runs the shared model with the service's fixed parameters inside
// a bounded worker pool.
type Invoker struct {
	model       Provider
	pool        *resilience.Bulkhead
	cacheInvoke bool
	metrics     *observability.TranscriptionMetrics
	log         *logger.Logger
}

// NewInvoker wraps model. metrics may be nil.
func NewInvoker(model Provider, cfg InvokerConfig, metrics *observability.TranscriptionMetrics, log *logger.Logger) *Invoker {
	if log == nil {
		log = logger.Nop()
	}
	pool := resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "inference",
		MaxConcurrent: cfg.MaxThreads,
		MaxWait:       resilience.WaitForever,
		Exclusive:     !cfg.Reentrant,
		OnAcquire: func(_ string, waited time.Duration) {
			metrics.SlotAcquired(context.Background(), waited)
		},
		OnRelease: func(string) {
			metrics.SlotReleased(context.Background())
		},
	})
	return &Invoker{
		model:       model,
		pool:        pool,
		cacheInvoke: cfg.CacheInvoke,
		metrics:     metrics,
		log:         log,
	}
}

// Options builds the inference options for one call. An empty language
// means automatic detection.
func (i *Invoker) Options(language string, withTimestamps bool) InferenceOptions {
	if language == "" {
		language = LanguageAuto
	}
	return InferenceOptions{
		Language:        language,
		UseITN:          true,
		BatchSizeS:      batchSizeSeconds,
		MergeVAD:        true,
		MergeLengthS:    mergeLengthSeconds,
		CacheInvoke:     i.cacheInvoke,
		OutputTimestamp: withTimestamps,
	}
}

// Invoke transcribes the file at path and returns the model's first
// result record. It blocks until a worker slot is free or ctx is done.
func (i *Invoker) Invoke(ctx context.Context, path, language string, withTimestamps bool) (ModelResult, error) {
	opts := i.Options(language, withTimestamps)

	ctx, span := observability.StartSpan(ctx, observability.SpanInference)
	span.SetAttributes(
		attribute.String(observability.AttrBackend, i.model.Name()),
		attribute.String(observability.AttrLanguage, opts.Language),
	)

	start := time.Now()
	results, err := resilience.ExecuteWithResult(i.pool, ctx, func() ([]ModelResult, error) {
		return i.model.Generate(ctx, path, opts)
	})
	if err == nil && len(results) == 0 {
		err = ErrEmptyResult
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	i.metrics.RecordInference(ctx, opts.Language, status, time.Since(start))
	observability.EndSpan(span, err)

	if err != nil {
		return ModelResult{}, fmt.Errorf("%s inference: %w", i.model.Name(), err)
	}

	i.log.WithContext(ctx).Debug("Inference finished", logger.DurationFields("inference", time.Since(start)))
	return results[0], nil
}

// Capacity returns the configured worker count.
func (i *Invoker) Capacity() int {
	return i.pool.MaxConcurrent()
}
