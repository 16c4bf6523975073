package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/reactless/internal/logging"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/ports"
)

// Engine is the cooperative work loop shared by every render session.
//
// All methods must be called from the scheduler's thread (for example through
// scheduler.Loop.Submit); the engine does no locking of its own.
type Engine struct {
	host      ports.Host
	scheduler ports.Scheduler

	sessions map[ports.HostNode]*Session
	order    []*Session
	running  bool

	logger *slog.Logger
	hooks  domain.LifecycleHooks
	margin time.Duration
	policy RenderPolicy
	now    func() time.Time
}

// NewEngine creates an engine that mutates host and is driven by scheduler.
func NewEngine(host ports.Host, scheduler ports.Scheduler, opts ...Option) *Engine {
	e := &Engine{
		host:      host,
		scheduler: scheduler,
		sessions:  make(map[ports.HostNode]*Session),
		logger:    logging.NewNop(),
		margin:    DefaultSafetyMargin,
		policy:    PolicyRestart,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render starts a render pass of element into container.
// The first call for a container creates its session; every later call is
// diffed against what was last committed there. Host mutations happen only
// once the whole pass has been reconciled, in a later scheduler callback.
func (e *Engine) Render(ctx context.Context, container ports.HostNode, element domain.Element) error {
	if container == nil {
		return domain.ErrNoContainer
	}

	s, ok := e.sessions[container]
	if !ok {
		s = newSession(container, e)
		e.sessions[container] = s
		e.order = append(e.order, s)
	}

	if err := s.Render(ctx, element); err != nil {
		return fmt.Errorf("render into %s: %w", describe(container), err)
	}

	e.start()
	return nil
}

// Session returns the session of container, if one exists.
func (e *Engine) Session(container ports.HostNode) (*Session, bool) {
	s, ok := e.sessions[container]
	return s, ok
}

// Inspect returns the committed fiber tree of container in pre-order.
func (e *Engine) Inspect(container ports.HostNode) []domain.FiberInfo {
	if s, ok := e.sessions[container]; ok {
		return s.Inspect()
	}
	return nil
}

// Idle reports whether no session has render work pending.
func (e *Engine) Idle() bool {
	for _, s := range e.order {
		if s.HasWork() {
			return false
		}
	}
	return true
}

// IdleFor reports whether container has no render work pending.
// A container the engine has never seen is idle.
func (e *Engine) IdleFor(container ports.HostNode) bool {
	s, ok := e.sessions[container]
	return !ok || !s.HasWork()
}

// Forget drops the session of container: a pass in flight is abandoned, a
// queued render is discarded and the session's fibers are released. The host
// nodes already committed into container are left untouched.
// It reports whether the container had a session.
func (e *Engine) Forget(container ports.HostNode) bool {
	s, ok := e.sessions[container]
	if !ok {
		return false
	}
	s.queued = nil
	if s.InFlight() {
		s.abandon(context.WithoutCancel(s.ctx))
	}
	s.release()

	delete(e.sessions, container)
	for i, cur := range e.order {
		if cur == s {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	e.logger.Debug("render session forgotten", "container", s.name)
	return true
}

// start requests the first grant. From then on the loop keeps itself alive.
func (e *Engine) start() {
	if e.running {
		return
	}
	e.running = true
	e.scheduler.RequestCallback(e.workLoop)
}

// workLoop spends one grant on render work, commits every pass that finished
// reconciling and asks for the next grant.
func (e *Engine) workLoop(deadline ports.Deadline) {
	for _, s := range e.order {
		if s.cancelled() && !s.InFlight() {
			continue
		}

		units := 0
		var remaining time.Duration
		for !s.next.IsNil() {
			if remaining = deadline.TimeRemaining(); remaining <= e.margin {
				break
			}
			s.next = s.performUnitOfWork(s.next)
			units++
		}

		if units > 0 {
			s.stats.slices++
			if s.hooks.OnSlice != nil {
				s.hooks.OnSlice(s.ctx, &domain.SliceEvent{
					EventBase: s.eventBase(domain.EventSlice),
					Units:     units,
					Remaining: remaining,
					Exhausted: s.next.IsNil(),
				})
			}
		}

		if s.next.IsNil() && s.InFlight() {
			s.commitRoot()
		}
	}

	e.scheduler.RequestCallback(e.workLoop)
}

// describe names a container for logs and errors.
func describe(container ports.HostNode) string {
	if s, ok := container.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", container)
}
