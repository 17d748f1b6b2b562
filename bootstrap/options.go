package bootstrap

import (
	"io"
	"time"

	"github.com/735726032/openai-SenseVoice/logger"
)

// Option configures an App.
type Option func(*settings)

// settings collects the options before the App exists.
type settings struct {
	log             *logger.Logger
	gracefulTimeout time.Duration
	summaryOut      io.Writer
}

// WithLogger replaces the logger built from the config's logging section.
// It also becomes the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithGracefulTimeout bounds the whole shutdown sequence.
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *settings) { s.gracefulTimeout = d }
}

// WithSummaryWriter redirects the startup summary. io.Discard silences it.
func WithSummaryWriter(w io.Writer) Option {
	return func(s *settings) { s.summaryOut = w }
}
