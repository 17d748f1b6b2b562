package bootstrap

import (
	"context"
	"fmt"
)

// Hook runs at a fixed point of the lifecycle.
type Hook func(ctx context.Context) error

type phase int

const (
	phaseStart phase = iota // components started
	phaseReady              // ready check done
	phaseStop               // before components stop
)

func (p phase) String() string {
	switch p {
	case phaseStart:
		return "start"
	case phaseReady:
		return "ready"
	default:
		return "stop"
	}
}

// OnStart hooks run once every component has started.
func (a *App[C]) OnStart(hooks ...Hook) { a.hooks[phaseStart] = append(a.hooks[phaseStart], hooks...) }

// OnReady hooks run after the ready check, just before the summary.
func (a *App[C]) OnReady(hooks ...Hook) { a.hooks[phaseReady] = append(a.hooks[phaseReady], hooks...) }

// OnStop hooks run at shutdown before components are stopped.
func (a *App[C]) OnStop(hooks ...Hook) { a.hooks[phaseStop] = append(a.hooks[phaseStop], hooks...) }

func (a *App[C]) runPhase(ctx context.Context, p phase) error {
	if err := runHooks(ctx, a.hooks[p]); err != nil {
		return fmt.Errorf("%s hook: %w", p, err)
	}
	return nil
}

// runHooks stops at the first failing hook.
func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("#%d: %w", i, err)
		}
	}
	return nil
}
