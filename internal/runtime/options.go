package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/reactless/pkg/domain"
)

// RenderPolicy decides what Render does while a previous pass has not committed.
type RenderPolicy int

const (
	// PolicyRestart abandons the in-progress pass and starts over with the new element.
	PolicyRestart RenderPolicy = iota
	// PolicyQueue keeps the latest request and starts it right after the in-flight pass commits or is abandoned.
	PolicyQueue
	// PolicyReject returns domain.ErrRenderInFlight.
	PolicyReject
)

func (p RenderPolicy) String() string {
	switch p {
	case PolicyQueue:
		return "queue"
	case PolicyReject:
		return "reject"
	default:
		return "restart"
	}
}

// DefaultSafetyMargin is the budget left unused at the end of every grant.
const DefaultSafetyMargin = time.Millisecond

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithSafetyMargin sets how much of each grant is left to the host.
// A unit of work only starts while the remaining budget exceeds the margin.
func WithSafetyMargin(d time.Duration) Option {
	return func(e *Engine) {
		e.margin = d
	}
}

// WithRenderPolicy sets the policy for renders requested while a pass is in flight.
func WithRenderPolicy(p RenderPolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithClock overrides the time source used for event timestamps and commit durations.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}
