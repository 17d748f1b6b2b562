package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/735726032/openai-SenseVoice/component"
)

// Component owns the tracer and meter providers for the process lifetime.
type Component struct {
	cfg Config
	id  Identity

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the observability component. Nothing is exported
// until Start runs, and only when cfg.Enabled is set.
func NewComponent(cfg Config, service, version, environment string) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, id: Identity{Service: service, Version: version, Environment: environment}}
}

// Name implements component.Component.
func (c *Component) Name() string { return "observability" }

// Start installs the global providers.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}

	res, err := NewResource(c.id)
	if err != nil {
		return fmt.Errorf("resource: %w", err)
	}

	tp, err := InitTracer(ctx, c.cfg, res)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	c.tp = tp

	mp, err := InitMeter(ctx, c.cfg, res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		c.tp = nil
		return fmt.Errorf("init meter: %w", err)
	}
	c.mp = mp
	return nil
}

// Stop flushes and shuts down both providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.mp != nil {
		if err := c.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
		c.mp = nil
	}
	if c.tp != nil {
		if err := c.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		c.tp = nil
	}
	return errors.Join(errs...)
}

// Health implements component.Component.
func (c *Component) Health(_ context.Context) component.Health {
	msg := "export disabled"
	if c.cfg.Enabled {
		msg = "exporting to " + c.cfg.Endpoint
	}
	return component.Healthy(c.Name(), msg)
}

// Describe implements component.Describable.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp/http %s sample=%.2f", c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Name: "OpenTelemetry", Type: "observability", Details: details}
}
