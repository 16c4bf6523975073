package reactless

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/reactless/internal/logging"
	"github.com/aretw0/reactless/internal/runtime"
	"github.com/aretw0/reactless/pkg/adapters/scheduler"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/ports"
)

//go:embed VERSION
var version string

// Version is the release of the module.
var Version = strings.TrimSpace(version)

// RenderPolicy decides what Render does while a previous pass has not committed.
type RenderPolicy = runtime.RenderPolicy

const (
	// PolicyRestart abandons the pass in flight and starts over with the new element. It is the default.
	PolicyRestart = runtime.PolicyRestart
	// PolicyQueue keeps the latest request and starts it once the pass in flight commits or is abandoned.
	PolicyQueue = runtime.PolicyQueue
	// PolicyReject makes Render return domain.ErrRenderInFlight.
	PolicyReject = runtime.PolicyReject
)

// DefaultSafetyMargin is the part of every grant left to the host unless WithSafetyMargin says otherwise.
const DefaultSafetyMargin = runtime.DefaultSafetyMargin

// ErrFrameBudget is returned by New when the frame budget leaves no room for work
// once the safety margin is taken out.
var ErrFrameBudget = errors.New("reactless: frame budget must exceed the safety margin")

// Engine is the high-level entry point of the library.
//
// By default it owns a scheduler.Loop: call Run in its own goroutine and every
// other method becomes safe for concurrent use, since each one is executed on
// the loop goroutine. With WithScheduler the caller drives the scheduler and
// must call the engine from the scheduler's thread.
type Engine struct {
	runtime   *runtime.Engine
	host      ports.Host
	scheduler ports.Scheduler
	loop      *scheduler.Loop

	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	margin      time.Duration
	budget      time.Duration
	runtimeOpts []runtime.Option
	loopOpts    []scheduler.LoopOption
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
// Several calls merge their hooks, in call order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithScheduler injects a scheduler instead of the default frame loop.
func WithScheduler(s ports.Scheduler) Option {
	return func(e *Engine) {
		e.scheduler = s
	}
}

// WithRenderPolicy sets what happens to a render requested while a pass is in flight.
func WithRenderPolicy(p RenderPolicy) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithRenderPolicy(p))
	}
}

// WithSafetyMargin sets how much of each grant is left to the host.
// A unit of work only starts while more than the margin remains.
func WithSafetyMargin(d time.Duration) Option {
	return func(e *Engine) {
		e.margin = d
	}
}

// WithFrame configures the default loop: a grant every interval, each lasting at most budget.
// It has no effect together with WithScheduler. The budget must exceed the safety margin.
func WithFrame(interval, budget time.Duration) Option {
	return func(e *Engine) {
		e.budget = budget
		e.loopOpts = append(e.loopOpts,
			scheduler.WithFrameInterval(interval),
			scheduler.WithFrameBudget(budget),
		)
	}
}

// New initializes an engine that renders into host.
func New(host ports.Host, opts ...Option) (*Engine, error) {
	if host == nil {
		return nil, errors.New("reactless: host is required")
	}

	eng := &Engine{
		host:   host,
		margin: DefaultSafetyMargin,
		budget: scheduler.DefaultFrameBudget,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.scheduler == nil {
		if eng.budget <= eng.margin {
			return nil, fmt.Errorf("%w: budget %s, margin %s", ErrFrameBudget, eng.budget, eng.margin)
		}
		eng.loop = scheduler.NewLoop(append([]scheduler.LoopOption{scheduler.WithLogger(eng.logger)}, eng.loopOpts...)...)
		eng.scheduler = eng.loop
	}

	runtimeOpts := []runtime.Option{
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithSafetyMargin(eng.margin),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	eng.runtime = runtime.NewEngine(host, eng.scheduler, runtimeOpts...)
	return eng, nil
}

// Run drives the default loop until ctx is done.
// With an injected scheduler it only waits for ctx.
func (e *Engine) Run(ctx context.Context) error {
	if e.loop == nil {
		<-ctx.Done()
		return nil
	}
	return e.loop.Run(ctx)
}

// Render schedules a render of element into container.
// The host tree is updated later, in one commit, once the whole pass has been
// reconciled. Cancelling ctx before that commit abandons the pass.
func (e *Engine) Render(ctx context.Context, container ports.HostNode, element domain.Element) error {
	return e.do(ctx, func() error {
		return e.runtime.Render(ctx, container, element)
	})
}

// Inspect returns the committed fiber tree of container in pre-order.
func (e *Engine) Inspect(ctx context.Context, container ports.HostNode) ([]domain.FiberInfo, error) {
	var infos []domain.FiberInfo
	err := e.do(ctx, func() error {
		infos = e.runtime.Inspect(container)
		return nil
	})
	return infos, err
}

// Idle reports whether every render requested so far has committed.
func (e *Engine) Idle(ctx context.Context) (bool, error) {
	var idle bool
	err := e.do(ctx, func() error {
		idle = e.runtime.Idle()
		return nil
	})
	return idle, err
}

// IdleFor reports whether every render requested for container so far has committed.
// Work pending on other containers does not count.
func (e *Engine) IdleFor(ctx context.Context, container ports.HostNode) (bool, error) {
	var idle bool
	err := e.do(ctx, func() error {
		idle = e.runtime.IdleFor(container)
		return nil
	})
	return idle, err
}

// Wait blocks until the engine is idle or ctx is done, checking every poll.
func (e *Engine) Wait(ctx context.Context, poll time.Duration) error {
	return e.waitUntil(ctx, poll, e.Idle)
}

// WaitFor blocks until container is idle or ctx is done, checking every poll.
func (e *Engine) WaitFor(ctx context.Context, container ports.HostNode, poll time.Duration) error {
	return e.waitUntil(ctx, poll, func(ctx context.Context) (bool, error) {
		return e.IdleFor(ctx, container)
	})
}

// Forget releases everything the engine holds for container. A pass in flight
// is abandoned; nodes already committed into container stay where they are.
// A later Render into container starts from an empty tree.
func (e *Engine) Forget(ctx context.Context, container ports.HostNode) error {
	return e.do(ctx, func() error {
		e.runtime.Forget(container)
		return nil
	})
}

func (e *Engine) waitUntil(ctx context.Context, poll time.Duration, idleFn func(context.Context) (bool, error)) error {
	if poll <= 0 {
		poll = time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		idle, err := idleFn(ctx)
		if err != nil {
			return err
		}
		if idle {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Host returns the host the engine renders into.
func (e *Engine) Host() ports.Host {
	return e.host
}

func (e *Engine) do(ctx context.Context, fn func() error) error {
	if e.loop == nil {
		return fn()
	}
	return e.loop.Do(ctx, fn)
}
