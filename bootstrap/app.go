package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/735726032/openai-SenseVoice/component"
	"github.com/735726032/openai-SenseVoice/logger"
)

const defaultGracefulTimeout = 30 * time.Second

// App drives a service through start, serve and shutdown. C is the typed
// config, available to configure callbacks as app.Cfg.
//
//	app, err := bootstrap.NewApp(cfg)
//	app.RegisterComponent(modelComponent)
//	app.RegisterComponent(server.NewComponent(srv))
//	err = app.Run(ctx)
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration
	hooks           map[phase][]Hook
	configure       []func(ctx context.Context, app *App[C]) error
}

// NewApp applies defaults to cfg, validates it and sets up logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	s := settings{gracefulTimeout: defaultGracefulTimeout}
	for _, opt := range opts {
		opt(&s)
	}

	base := cfg.GetServiceConfig()
	if s.log != nil {
		logger.SetGlobalLogger(s.log)
	} else {
		logger.Init(&base.Logging)
	}

	// The registry picks up the global logger, so it comes second.
	registry := component.NewRegistry()
	registry.SetStopTimeout(s.gracefulTimeout)

	return &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      registry,
		Logger:          logger.GetGlobalLogger(),
		Summary:         NewSummary(base.Name, base.Version, s.summaryOut),
		gracefulTimeout: s.gracefulTimeout,
		hooks:           map[phase][]Hook{},
	}, nil
}

// RegisterComponent adds c. Components start in registration order and
// stop in reverse.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure adds a callback that runs after the start hooks, with the
// typed app at hand.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.configure = append(a.configure, fn)
}

// ReadyCheck fails when any component is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var bad []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		entry := fmt.Sprintf("%s=%s", h.Name, h.Status)
		if h.Message != "" {
			entry += " (" + h.Message + ")"
		}
		bad = append(bad, entry)
	}
	if len(bad) > 0 {
		return fmt.Errorf("unhealthy components: %s", strings.Join(bad, ", "))
	}
	return nil
}

// Run starts everything, then blocks until SIGINT, SIGTERM or the end of
// ctx and shuts down.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}
	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.stop()
}

// RunTask starts everything, runs task and shuts down when it returns. A
// signal cancels the task's context. The task's error wins over a
// shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	taskCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := task(taskCtx); err != nil {
		_ = a.stop()
		return err
	}
	return a.stop()
}

// startup brings the app up. Any failure after components have started
// stops them again.
func (a *App[C]) startup(ctx context.Context) error {
	began := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	steps := []func() error{
		func() error { return a.runPhase(ctx, phaseStart) },
		func() error {
			for _, fn := range a.configure {
				if err := fn(ctx, a); err != nil {
					return fmt.Errorf("configuration failed: %w", err)
				}
			}
			return nil
		},
		func() error {
			// An unavailable backend is reported, not fatal: /ready tracks it.
			if err := a.ReadyCheck(ctx); err != nil {
				a.Logger.Warn("Ready check reported issues", logger.Err(err))
			}
			return nil
		},
		func() error { return a.runPhase(ctx, phaseReady) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			if stopErr := a.stop(); stopErr != nil {
				a.Logger.Error("Cleanup after failed startup", logger.Err(stopErr))
			}
			return err
		}
	}

	a.Summary.SetStartupDuration(time.Since(began))
	a.Summary.Collect(ctx, a.Components)
	a.Summary.Display()
	return nil
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx is done. It returns the
// signal, or nil on cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown stops the app for callers that run their own wait loop.
func (a *App[C]) Shutdown(_ context.Context) error {
	return a.stop()
}

// stop runs the stop hooks, then stops components, all within the
// graceful timeout. Both errors are kept.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	hookErr := a.runPhase(ctx, phaseStop)
	if hookErr != nil {
		a.Logger.Error("Stop hook failed", logger.Err(hookErr))
	}
	compErr := a.Components.StopAll(ctx)
	if compErr != nil {
		a.Logger.Error("Shutdown completed with errors", logger.Err(compErr))
	}

	a.Logger.Info("Application shutdown complete")
	return errors.Join(hookErr, compErr)
}
