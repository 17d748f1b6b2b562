package component

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/735726032/openai-SenseVoice/logger"
)

const defaultStopTimeout = 10 * time.Second

// Registry owns component lifecycles. Components start in registration
// order; the ones that started are kept on a stack and stopped in reverse.
type Registry struct {
	mu          sync.Mutex
	order       []Component
	byName      map[string]Component
	running     []Component
	stopTimeout time.Duration
	log         *logger.Logger
}

func NewRegistry() *Registry {
	return &Registry{
		byName:      map[string]Component{},
		stopTimeout: defaultStopTimeout,
		log:         logger.WithComponent("component"),
	}
}

// SetStopTimeout bounds each component's Stop. Non-positive values are
// ignored.
func (r *Registry) SetStopTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	r.stopTimeout = d
	r.mu.Unlock()
}

// Register appends c. Dependencies must be registered before dependents.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("component %s already registered", name)
	}
	r.byName[name] = c
	r.order = append(r.order, c)
	return nil
}

func (r *Registry) isRunning(c Component) bool {
	return slices.ContainsFunc(r.running, func(x Component) bool { return x.Name() == c.Name() })
}

// StartAll starts every component that is not running yet. The first
// failure stops everything started so far and is returned.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	var failed error
	for _, c := range r.order {
		if r.isRunning(c) {
			continue
		}
		began := time.Now()
		if err := c.Start(ctx); err != nil {
			r.log.Error("Component start failed", logger.Err(err, logger.FieldComponent, c.Name()))
			failed = fmt.Errorf("failed to start %s: %w", c.Name(), err)
			break
		}
		r.running = append(r.running, c)
		r.log.Debug("Component started", logger.Fields(
			logger.FieldComponent, c.Name(),
			logger.FieldDuration, time.Since(began).Milliseconds(),
		))
	}
	count := len(r.running)
	r.mu.Unlock()

	if failed != nil {
		if err := r.StopAll(context.WithoutCancel(ctx)); err != nil {
			r.log.Warn("Rollback after failed start was incomplete", logger.Err(err))
		}
		return failed
	}
	r.log.Info("All components started", logger.Fields("count", count))
	return nil
}

// StopAll pops the running stack, giving each component its own timeout.
// Every error is collected.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for len(r.running) > 0 {
		c := r.running[len(r.running)-1]
		r.running = r.running[:len(r.running)-1]

		stopCtx, cancel := context.WithTimeout(ctx, r.stopTimeout)
		err := c.Stop(stopCtx)
		cancel()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", c.Name(), err))
			r.log.Error("Component stop failed", logger.Err(err, logger.FieldComponent, c.Name()))
			continue
		}
		r.log.Info("Component stopped", logger.Fields(logger.FieldComponent, c.Name()))
	}
	return errors.Join(errs...)
}

// HealthAll asks every component for its health in registration order.
// The probes run outside the lock since a backend check may block.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	all := r.All()
	out := make([]Health, 0, len(all))
	for _, c := range all {
		out = append(out, c.Health(ctx))
	}
	return out
}

// Get returns the component registered as name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byName[name]
}

// All returns the components in registration order.
func (r *Registry) All() []Component {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}
