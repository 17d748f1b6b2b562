package testutil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/735726032/openai-SenseVoice/component"
	"github.com/735726032/openai-SenseVoice/logger"
	"github.com/735726032/openai-SenseVoice/server"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Option adjusts the server config before defaults are applied.
type Option func(*server.Config)

// WithMaxBodySize sets the upload cap.
func WithMaxBodySize(size string) Option {
	return func(c *server.Config) { c.MaxBodySize = size }
}

// WithCORSOrigins restricts the allowed origins.
func WithCORSOrigins(origins ...string) Option {
	return func(c *server.Config) { c.CORS.AllowedOrigins = origins }
}

// Server is a server.Server behind an httptest.Server on loopback. It
// satisfies component.Component so it can sit in a registry.
type Server struct {
	srv *server.Server

	mu sync.Mutex
	ts *httptest.Server
}

var _ component.Component = (*Server)(nil)

// NewServer builds an unstarted test server with the full middleware stack.
func NewServer(opts ...Option) *Server {
	cfg := server.Config{Host: "127.0.0.1", Mode: gin.TestMode}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.ApplyDefaults()
	return &Server{srv: server.New(cfg, logger.Nop())}
}

// StartT starts s and stops it when t finishes.
func (s *Server) StartT(t testing.TB) {
	t.Helper()
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start test server: %v", err)
	}
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
}

// GinEngine is where tests mount routes.
func (s *Server) GinEngine() *gin.Engine { return s.srv.GinEngine() }

// Server returns the wrapped *server.Server.
func (s *Server) Server() *server.Server { return s.srv }

// URL joins path onto the base URL. It is empty before Start.
func (s *Server) URL(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts == nil {
		return ""
	}
	return s.ts.URL + path
}

// Client returns an HTTP client bound to the test server.
func (s *Server) Client() *http.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts == nil {
		return http.DefaultClient
	}
	return s.ts.Client()
}

func (s *Server) Name() string { return "http-server-test" }

func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts != nil {
		return errors.New("test server already started")
	}
	s.srv.ApplyMiddleware()
	s.ts = httptest.NewServer(s.srv.Handler())
	return nil
}

func (s *Server) Stop(_ context.Context) error {
	s.mu.Lock()
	ts := s.ts
	s.ts = nil
	s.mu.Unlock()
	if ts != nil {
		ts.Close()
	}
	return nil
}

func (s *Server) Health(_ context.Context) component.Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts == nil {
		return component.Unhealthy(s.Name(), "not started")
	}
	return component.Healthy(s.Name(), s.ts.URL)
}
