// Package funasr is a model backend that talks to a FunASR inference
// sidecar over HTTP. The sidecar keeps the SenseVoice weights loaded and
// exposes:
//
//	GET  /health     200 when the model is loaded
//	POST /generate   multipart: audio file plus inference options
package funasr

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/735726032/openai-SenseVoice/httpclient"
	"github.com/735726032/openai-SenseVoice/provider"
	"github.com/735726032/openai-SenseVoice/transcription"
	"github.com/735726032/openai-SenseVoice/version"
)

const (
	// ProviderName is the registered name for the FunASR backend.
	ProviderName = "funasr"

	defaultURL     = "http://localhost:50000"
	defaultTimeout = 300 * time.Second
)

// Config holds configuration for the FunASR backend.
type Config struct {
	URL     string        `json:"url" yaml:"url"`
	Model   string        `json:"model" yaml:"model"`
	Device  string        `json:"device,omitempty" yaml:"device"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	// Token is sent as a bearer token when the sidecar sits behind auth.
	Token string                `json:"-" yaml:"token"`
	TLS   *httpclient.TLSConfig `json:"tls,omitempty" yaml:"tls"`
}

// Provider implements transcription.Provider against a FunASR sidecar.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a new FunASR backend.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	if cfg.Model == "" {
		cfg.Model = transcription.DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	clientCfg := httpclient.Config{
		BaseURL: cfg.URL,
		Timeout: cfg.Timeout,
		TLS:     cfg.TLS,
		Headers: map[string]string{"User-Agent": version.UserAgent("sensevoice-server")},
	}
	if cfg.Token != "" {
		clientCfg.Auth = httpclient.BearerAuth(cfg.Token)
	}
	client, err := httpclient.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("funasr client: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory returns a provider.Factory that builds the backend from the url,
// model, device, timeout, token and tls_* options.
func Factory() provider.Factory[transcription.Provider] {
	return func(opts provider.Options) (transcription.Provider, error) {
		cfg := Config{
			URL:     opts.String("url", defaultURL),
			Model:   opts.String("model", transcription.DefaultModel),
			Device:  opts.String("device", ""),
			Timeout: opts.Duration("timeout", defaultTimeout),
			Token:   opts.String("token", ""),
		}
		tls := &httpclient.TLSConfig{
			SkipVerify: opts.Bool("tls_skip_verify", false),
			CAFile:     opts.String("tls_ca_file", ""),
			ServerName: opts.String("tls_server_name", ""),
		}
		if *tls != (httpclient.TLSConfig{}) {
			cfg.TLS = tls
		}
		p, err := NewProvider(cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the sidecar reports a loaded model.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/health"})
	return err == nil
}

// Generate streams the audio file at path to the sidecar and returns its
// results. The file is read as the request is sent, never held in memory.
func (p *Provider) Generate(ctx context.Context, path string, opts transcription.InferenceOptions) ([]transcription.ModelResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/generate",
		Headers: map[string]string{"Accept": "application/json"},
		Body: &httpclient.MultipartBody{
			Fields: p.fields(opts),
			Files:  []httpclient.FileField{{FieldName: "audio", FileName: filepath.Base(path), Reader: f}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("funasr generate: %w", err)
	}

	var result generateResponse
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, fmt.Errorf("funasr generate: %w", err)
	}
	return result.toModelResults(), nil
}

// Close drops idle keep-alive connections to the sidecar.
func (p *Provider) Close(_ context.Context) error {
	p.client.CloseIdleConnections()
	return nil
}

func (p *Provider) fields(opts transcription.InferenceOptions) []httpclient.Field {
	fields := []httpclient.Field{
		{Name: "model", Value: p.cfg.Model},
		{Name: "language", Value: opts.Language},
		{Name: "use_itn", Value: strconv.FormatBool(opts.UseITN)},
		{Name: "batch_size_s", Value: strconv.Itoa(opts.BatchSizeS)},
		{Name: "merge_vad", Value: strconv.FormatBool(opts.MergeVAD)},
		{Name: "merge_length_s", Value: strconv.Itoa(opts.MergeLengthS)},
		{Name: "cache_invoke", Value: strconv.FormatBool(opts.CacheInvoke)},
		{Name: "output_timestamp", Value: strconv.FormatBool(opts.OutputTimestamp)},
	}
	if p.cfg.Device != "" {
		fields = append(fields, httpclient.Field{Name: "device", Value: p.cfg.Device})
	}
	return fields
}

// --- sidecar wire types ---

type generateResponse struct {
	Results []resultRecord `json:"results"`
}

type resultRecord struct {
	Key      string          `json:"key"`
	Text     string          `json:"text"`
	Segments []segmentRecord `json:"segments"`
}

type segmentRecord struct {
	Text  string       `json:"text"`
	Start float64      `json:"start"`
	End   float64      `json:"end"`
	Words []wordRecord `json:"words"`
}

type wordRecord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (r *generateResponse) toModelResults() []transcription.ModelResult {
	out := make([]transcription.ModelResult, len(r.Results))
	for i, res := range r.Results {
		segments := make([]transcription.Segment, len(res.Segments))
		for j, seg := range res.Segments {
			words := make([]transcription.Word, len(seg.Words))
			for k, w := range seg.Words {
				words[k] = transcription.Word{Text: w.Word, Start: w.Start, End: w.End}
			}
			segments[j] = transcription.Segment{Text: seg.Text, Start: seg.Start, End: seg.End, Words: words}
		}
		out[i] = transcription.ModelResult{Key: res.Key, Text: res.Text, Segments: segments}
	}
	return out
}
