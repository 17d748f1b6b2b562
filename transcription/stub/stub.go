// Package stub is an in-process model backend that returns canned output.
//
// It backs model.backend: stub for local development and is the model used
// by the service's tests. It can inject failures and records every call
// along with the bytes it found at the temp path. When timestamps are
// requested for a WAV upload without canned segments, it returns one
// segment spanning the decoded clip.
package stub

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/wav"

	"github.com/735726032/openai-SenseVoice/provider"
	"github.com/735726032/openai-SenseVoice/transcription"
)

// ProviderName is the registered name for the stub backend.
const ProviderName = "stub"

// DefaultText is returned when no result is configured.
const DefaultText = "<|en|><|NEUTRAL|><|Speech|><|withitn|>This is a stub transcript."

// Call records one Generate invocation.
type Call struct {
	Path    string
	Options transcription.InferenceOptions
	Data    []byte
}

// Provider implements transcription.Provider without a real model.
type Provider struct {
	mu          sync.Mutex
	results     []transcription.ModelResult
	err         error
	unavailable bool
	hook        func(path string) error
	calls       []Call
	closed      bool
}

var _ transcription.Provider = (*Provider)(nil)

// Option configures a stub Provider.
type Option func(*Provider)

// WithText returns a single result with the given raw text and segments.
func WithText(text string, segments ...transcription.Segment) Option {
	return func(p *Provider) {
		p.results = []transcription.ModelResult{{Key: "stub", Text: text, Segments: segments}}
	}
}

// WithResults returns exactly these results, which may be empty.
func WithResults(results []transcription.ModelResult) Option {
	return func(p *Provider) { p.results = results }
}

// WithError makes every Generate call fail with err.
func WithError(err error) Option {
	return func(p *Provider) { p.err = err }
}

// WithUnavailable makes IsAvailable report false.
func WithUnavailable() Option {
	return func(p *Provider) { p.unavailable = true }
}

// WithHook runs fn with the audio path inside Generate before the result
// is produced. A non-nil error from fn is returned from Generate.
func WithHook(fn func(path string) error) Option {
	return func(p *Provider) { p.hook = fn }
}

// New creates a stub backend.
func New(opts ...Option) *Provider {
	p := &Provider{}
	WithText(DefaultText)(p)
	for _, o := range opts {
		o(p)
	}
	return p
}

// Factory returns a provider.Factory reading an optional "text" option.
func Factory() provider.Factory[transcription.Provider] {
	return func(opts provider.Options) (transcription.Provider, error) {
		return New(WithText(opts.String("text", DefaultText))), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports false only when configured with WithUnavailable or after Close.
func (p *Provider) IsAvailable(_ context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.unavailable && !p.closed
}

// Generate records the call and returns the configured results.
func (p *Provider) Generate(ctx context.Context, path string, opts transcription.InferenceOptions) ([]transcription.ModelResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	p.mu.Lock()
	p.calls = append(p.calls, Call{Path: path, Options: opts, Data: data})
	hook, results, genErr := p.hook, p.results, p.err
	p.mu.Unlock()

	if hook != nil {
		if err := hook(path); err != nil {
			return nil, err
		}
	}
	if genErr != nil {
		return nil, genErr
	}

	out := append([]transcription.ModelResult(nil), results...)
	if opts.OutputTimestamp {
		for i := range out {
			if len(out[i].Segments) == 0 {
				out[i].Segments = spanSegment(out[i].Text, data)
			}
		}
	}
	return out, nil
}

// spanSegment covers a whole WAV clip with one segment. Other containers
// yield no segments.
func spanSegment(text string, data []byte) []transcription.Segment {
	d, err := WAVDuration(data)
	if err != nil {
		return nil
	}
	return []transcription.Segment{{Text: text, Start: 0, End: d}}
}

// WAVDuration returns the length in seconds of a PCM WAV clip.
func WAVDuration(data []byte) (float64, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("not a valid wav file")
	}
	d, err := dec.Duration()
	if err != nil {
		return 0, fmt.Errorf("wav duration: %w", err)
	}
	return d.Seconds(), nil
}

// Calls returns a copy of the recorded calls.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// Close marks the backend closed.
func (p *Provider) Close(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
