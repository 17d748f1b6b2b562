package transcription

import (
	"context"
	"fmt"
	"time"

	"github.com/735726032/openai-SenseVoice/component"
	"github.com/735726032/openai-SenseVoice/logger"
	"github.com/735726032/openai-SenseVoice/provider"
)

const healthProbeTimeout = 3 * time.Second

// ModelComponent owns the single model handle for the process lifetime.
// The handle is built before Start, shared read-only while serving and
// released by Stop.
type ModelComponent struct {
	model     Provider
	modelName string
	threads   int
	log       *logger.Logger
}

var (
	_ component.Component   = (*ModelComponent)(nil)
	_ component.Describable = (*ModelComponent)(nil)
)

// NewModelComponent wraps an already constructed model.
func NewModelComponent(model Provider, modelName string, threads int, log *logger.Logger) *ModelComponent {
	if log == nil {
		log = logger.Nop()
	}
	return &ModelComponent{model: model, modelName: modelName, threads: threads, log: log}
}

// Model returns the shared handle.
func (c *ModelComponent) Model() Provider { return c.model }

// Name implements component.Component.
func (c *ModelComponent) Name() string { return "model" }

// Start probes the backend once. An unavailable backend is logged rather
// than treated as fatal; readiness keeps reporting it until it comes up.
func (c *ModelComponent) Start(ctx context.Context) error {
	if c.model == nil {
		return fmt.Errorf("no model backend configured")
	}
	probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	if !c.model.IsAvailable(probeCtx) {
		c.log.Warn("Model backend not reachable yet", logger.Fields("backend", c.model.Name()))
		return nil
	}
	c.log.Info("Model backend ready", logger.Fields("backend", c.model.Name(), "model", c.modelName))
	return nil
}

// Stop releases the backend.
func (c *ModelComponent) Stop(ctx context.Context) error {
	if c.model == nil {
		return nil
	}
	return provider.Close(ctx, c.model)
}

// Health reports whether the backend answers right now.
func (c *ModelComponent) Health(ctx context.Context) component.Health {
	if c.model == nil {
		return component.Unhealthy(c.Name(), "no model backend configured")
	}

	probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()
	if !c.model.IsAvailable(probeCtx) {
		return component.Unhealthy(c.Name(), c.model.Name()+" backend unavailable")
	}
	return component.Healthy(c.Name(), c.model.Name())
}

// Describe implements component.Describable.
func (c *ModelComponent) Describe() component.Description {
	backend := "none"
	if c.model != nil {
		backend = c.model.Name()
	}
	return component.Description{
		Name:    "SenseVoice model",
		Type:    "model",
		Details: fmt.Sprintf("%s %s threads=%d", backend, c.modelName, c.threads),
	}
}
