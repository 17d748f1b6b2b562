package settings

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/735726032/openai-SenseVoice/auth"
	"github.com/735726032/openai-SenseVoice/config"
	"github.com/735726032/openai-SenseVoice/httpclient"
	"github.com/735726032/openai-SenseVoice/observability"
	"github.com/735726032/openai-SenseVoice/provider"
	"github.com/735726032/openai-SenseVoice/server"
	"github.com/735726032/openai-SenseVoice/transcription"
	"github.com/735726032/openai-SenseVoice/validation"
)

// ServiceName locates config files (./cmd/<name>/config.yml) and tags logs.
const ServiceName = "sensevoice-server"

// Model backends.
const (
	BackendFunASR = "funasr"
	BackendStub   = "stub"
)

// Settings is the complete service configuration.
type Settings struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Model         ModelConfig          `yaml:"model" mapstructure:"model"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`

	// Flat environment variables kept for deployments that predate the
	// nested layout. When set they override the nested values.
	Port             int    `yaml:"-" mapstructure:"port"`
	APIKey           string `yaml:"-" mapstructure:"api_key"`
	ForceCacheInvoke bool   `yaml:"-" mapstructure:"force_cache_invoke"`
	ForceCPU         bool   `yaml:"-" mapstructure:"force_cpu"`
}

// ModelConfig selects and tunes the model backend.
type ModelConfig struct {
	Backend          string        `yaml:"backend" mapstructure:"backend" validate:"oneof=funasr stub"`
	Name             string        `yaml:"name" mapstructure:"name"`
	URL              string        `yaml:"url" mapstructure:"url" validate:"omitempty,url"`
	Timeout          time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	Device           string        `yaml:"device" mapstructure:"device"`
	MaxThreads       int           `yaml:"max_threads" mapstructure:"max_threads" validate:"gte=1,lte=256"`
	Reentrant        bool          `yaml:"reentrant" mapstructure:"reentrant"`
	ForceCacheInvoke bool          `yaml:"force_cache_invoke" mapstructure:"force_cache_invoke"`
	TempDir          string        `yaml:"temp_dir" mapstructure:"temp_dir"`

	// Token and TLS apply to the funasr sidecar connection.
	Token string               `yaml:"token" mapstructure:"token"`
	TLS   httpclient.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// Defaults are registered with the loader so that booleans defaulting to
// true survive an absent key.
func Defaults() map[string]any {
	return map[string]any{
		"name":              ServiceName,
		"model.backend":     BackendFunASR,
		"model.max_threads": 6,
		"model.reentrant":   true,
	}
}

// Load reads config.yml, .env and the environment, then applies defaults
// and validates.
func Load(opts ...config.LoaderOption) (*Settings, error) {
	var s Settings
	opts = append([]config.LoaderOption{config.WithDefaults(Defaults())}, opts...)
	if err := config.LoadConfig(ServiceName, &s, opts...); err != nil {
		return nil, err
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ApplyDefaults folds the flat variables into the nested sections and fills
// every unset field.
func (s *Settings) ApplyDefaults() {
	if s.Name == "" {
		s.Name = ServiceName
	}
	if s.Port != 0 {
		s.Server.Port = s.Port
	}
	if s.APIKey != "" {
		s.Auth.APIKey = s.APIKey
	}
	if s.ForceCacheInvoke {
		s.Model.ForceCacheInvoke = true
	}
	if s.ForceCPU {
		s.Model.Device = "cpu"
	}

	s.ServiceConfig.ApplyDefaults()
	s.Server.ApplyDefaults()
	s.Auth.ApplyDefaults()
	s.Model.ApplyDefaults()
	s.Observability.ApplyDefaults()
	if s.Observability.SampleRate == 0 && s.Observability.Enabled {
		s.Observability.SampleRate = 1
	}
}

// Validate runs the struct tag rules and the cross-field checks.
func (s *Settings) Validate() error {
	if err := validation.Validate(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := s.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := s.Server.Validate(); err != nil {
		return err
	}
	if err := s.Auth.Validate(); err != nil {
		return fmt.Errorf("%w (set API_KEY or auth.api_key)", err)
	}
	if err := s.Model.Validate(); err != nil {
		return err
	}
	return s.Observability.Validate()
}

// ApplyDefaults fills unset model fields.
func (m *ModelConfig) ApplyDefaults() {
	if m.Backend == "" {
		m.Backend = BackendFunASR
	}
	if m.Name == "" {
		m.Name = transcription.DefaultModel
	}
	if m.URL == "" && m.Backend == BackendFunASR {
		m.URL = "http://localhost:50000"
	}
	m.URL = strings.TrimRight(m.URL, "/")
	if m.Timeout == 0 {
		m.Timeout = 300 * time.Second
	}
	if m.MaxThreads == 0 {
		m.MaxThreads = 6
	}
	if m.TempDir == "" {
		m.TempDir = os.TempDir()
	}
}

// Validate checks the cross-field rules struct tags cannot express.
func (m *ModelConfig) Validate() error {
	if !transcription.SupportedModels.Contains(m.Name) {
		return fmt.Errorf("model.name must be one of %s (got: %s)", transcription.SupportedModels, m.Name)
	}
	if m.Backend == BackendFunASR && m.URL == "" {
		return fmt.Errorf("model.url is required for the funasr backend")
	}
	if m.Device != "" && m.Device != "cpu" && !strings.HasPrefix(m.Device, "cuda") {
		return fmt.Errorf("model.device must be cpu or cuda[:N] (got: %s)", m.Device)
	}
	if info, err := os.Stat(m.TempDir); err != nil || !info.IsDir() {
		return fmt.Errorf("model.temp_dir %q is not a directory", m.TempDir)
	}
	return nil
}

// ProviderOptions returns the factory options for the selected backend.
func (m *ModelConfig) ProviderOptions() provider.Options {
	return provider.Options{
		"url":             m.URL,
		"model":           m.Name,
		"device":          m.Device,
		"timeout":         m.Timeout,
		"token":           m.Token,
		"tls_skip_verify": m.TLS.SkipVerify,
		"tls_ca_file":     m.TLS.CAFile,
		"tls_server_name": m.TLS.ServerName,
	}
}

// InvokerConfig returns the worker pool settings.
func (m *ModelConfig) InvokerConfig() transcription.InvokerConfig {
	return transcription.InvokerConfig{
		MaxThreads:  m.MaxThreads,
		Reentrant:   m.Reentrant,
		CacheInvoke: m.ForceCacheInvoke,
	}
}
