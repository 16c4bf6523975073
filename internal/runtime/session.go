package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/reactless/internal/fiber"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/ports"
)

// request is a render waiting for the in-flight pass to commit (PolicyQueue).
type request struct {
	ctx     context.Context
	element domain.Element
}

// deletion is an old fiber scheduled for removal, with the effect it carried
// before being marked, so an abandoned pass can restore it.
type deletion struct {
	fiber fiber.Handle
	prev  domain.EffectTag
}

// passStats accumulates counters for the pass in flight.
type passStats struct {
	units  int
	slices int
}

// Session is the render state of one host container.
//
// It is created by the first Render targeting the container and mutated only by
// the work loop (render phase) and commitRoot (commit phase). At most one pass is
// in flight: wipRoot is Nil exactly when no pass is in progress.
type Session struct {
	container ports.HostNode
	name      string
	host      ports.Host
	arena     *fiber.Arena

	wipRoot     fiber.Handle
	currentRoot fiber.Handle
	next        fiber.Handle
	deletions   []deletion

	pass   uint64
	ctx    context.Context
	queued *request
	stats  passStats

	policy RenderPolicy
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

func newSession(container ports.HostNode, e *Engine) *Session {
	name := describe(container)
	return &Session{
		container: container,
		name:      name,
		host:      e.host,
		arena:     fiber.NewArena(),
		policy:    e.policy,
		hooks:     e.hooks,
		logger:    e.logger.With("container", name),
		now:       e.now,
	}
}

// Render starts a new pass targeting the session's container.
// The pass is diffed against the last committed tree; what happens to a pass
// already in flight depends on the session's RenderPolicy.
func (s *Session) Render(ctx context.Context, element domain.Element) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if s.InFlight() {
		switch s.policy {
		case PolicyReject:
			return domain.ErrRenderInFlight
		case PolicyQueue:
			s.logger.Debug("render queued", "pass", s.pass)
			s.queued = &request{ctx: ctx, element: element}
			return nil
		default:
			s.abandon(ctx)
			s.begin(ctx, element, true)
			return nil
		}
	}

	s.begin(ctx, element, false)
	return nil
}

// InFlight reports whether a pass has started and not yet committed.
func (s *Session) InFlight() bool {
	return !s.wipRoot.IsNil()
}

// HasWork reports whether the work loop has anything to do for this session.
func (s *Session) HasWork() bool {
	return s.InFlight() || s.queued != nil
}

// Name identifies the session's container in logs and events.
func (s *Session) Name() string {
	return s.name
}

// Pass returns the number of the latest pass started.
func (s *Session) Pass() uint64 {
	return s.pass
}

// begin seeds a work-in-progress root linked to the committed tree.
func (s *Session) begin(ctx context.Context, element domain.Element, restarted bool) {
	s.pass++
	s.ctx = ctx
	s.stats = passStats{}
	s.deletions = nil

	s.wipRoot = s.arena.Alloc(fiber.Fiber{
		Host:      s.container,
		Props:     domain.Props{Children: []domain.Element{element}},
		Alternate: s.currentRoot,
		Pass:      s.pass,
	})
	s.next = s.wipRoot

	s.logger.Debug("render pass started", "pass", s.pass, "restarted", restarted)
	if s.hooks.OnRenderStart != nil {
		s.hooks.OnRenderStart(ctx, &domain.RenderEvent{
			EventBase: s.eventBase(domain.EventRenderStart),
			Restarted: restarted,
		})
	}
}

// abandon discards the pass in flight. No host mutation has happened yet, so
// dropping the fibers and restoring the marked old fibers is enough.
func (s *Session) abandon(ctx context.Context) {
	for _, d := range s.deletions {
		if f := s.arena.Get(d.fiber); f != nil {
			f.Effect = d.prev
		}
	}
	released := s.arena.SweepPass(s.pass)

	s.logger.Debug("render pass abandoned", "pass", s.pass, "units", s.stats.units, "released", released)
	if s.hooks.OnAbandon != nil {
		s.hooks.OnAbandon(ctx, &domain.RenderEvent{EventBase: s.eventBase(domain.EventAbandon)})
	}

	s.wipRoot = fiber.Nil
	s.next = fiber.Nil
	s.deletions = nil
}

// cancelled abandons the pass in flight if its context is done and starts
// the render queued behind it, if any.
func (s *Session) cancelled() bool {
	if !s.InFlight() || s.ctx.Err() == nil {
		return false
	}
	s.abandon(context.WithoutCancel(s.ctx))
	s.startQueued()
	return true
}

// release frees every fiber of the session, the committed tree included.
func (s *Session) release() {
	s.arena.Reset()
	s.currentRoot = fiber.Nil
}

// startQueued begins the render queued behind the pass that just committed.
func (s *Session) startQueued() {
	if s.queued == nil {
		return
	}
	req := s.queued
	s.queued = nil
	if req.ctx.Err() != nil {
		s.logger.Debug("queued render dropped", "err", req.ctx.Err())
		return
	}
	s.begin(req.ctx, req.element, false)
}

// Inspect returns the committed fiber tree in pre-order, excluding the synthetic root.
func (s *Session) Inspect() []domain.FiberInfo {
	root := s.arena.Get(s.currentRoot)
	if root == nil {
		return nil
	}

	var out []domain.FiberInfo
	for h := root.Child; !h.IsNil(); h = s.arena.Next(h, s.currentRoot) {
		f := s.arena.Get(h)
		out = append(out, domain.FiberInfo{
			Depth:   s.depth(h),
			Type:    f.Type,
			Effect:  f.Effect,
			HasHost: f.HasHost(),
			Props:   f.Props,
		})
	}
	return out
}

// LiveFibers returns the number of fibers held by the session's arena.
func (s *Session) LiveFibers() int {
	return s.arena.Len()
}

func (s *Session) depth(h fiber.Handle) int {
	d := -1
	for f := s.arena.Get(h); f != nil; f = s.arena.Get(f.Parent) {
		d++
	}
	return d - 1
}

func (s *Session) eventBase(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: s.now(),
		Type:      t,
		Container: s.name,
		Pass:      s.pass,
	}
}
