package runtime

import (
	"context"

	"github.com/aretw0/reactless/internal/fiber"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/ports"
)

// commitStats counts the effects applied by one commit.
type commitStats struct {
	placements int
	updates    int
	deletions  int
}

// commitRoot applies the whole tagged tree to the host in one uninterrupted
// pass, then makes it the committed tree.
func (s *Session) commitRoot() {
	if !s.InFlight() {
		return
	}
	start := s.now()
	ctx := context.WithoutCancel(s.ctx)
	var stats commitStats

	// 1. Deletions first, so stale nodes never sit next to their replacements
	for _, d := range s.deletions {
		s.commitDeletion(ctx, d.fiber, s.hostParent(d.fiber))
		stats.deletions++
	}

	// 2. Placements and updates in tree order
	root := s.wipRoot
	for h := s.arena.Get(root).Child; !h.IsNil(); h = s.arena.Next(h, root) {
		switch s.arena.Get(h).Effect {
		case domain.EffectPlacement:
			s.commitPlacement(ctx, h)
			stats.placements++
		case domain.EffectUpdate:
			s.commitUpdate(ctx, h)
			stats.updates++
		}
	}

	// 3. Swap roots; the old tree is only needed for diffing, so drop it
	s.currentRoot = root
	s.wipRoot = fiber.Nil
	s.next = fiber.Nil
	s.deletions = nil

	for h := root; !h.IsNil(); h = s.arena.Next(h, root) {
		s.arena.Get(h).Alternate = fiber.Nil
	}
	released := s.arena.Sweep(s.pass)

	s.logger.Debug("render pass committed",
		"pass", s.pass,
		"units", s.stats.units,
		"slices", s.stats.slices,
		"placements", stats.placements,
		"updates", stats.updates,
		"deletions", stats.deletions,
		"released", released,
	)
	if s.hooks.OnCommit != nil {
		s.hooks.OnCommit(ctx, &domain.CommitEvent{
			EventBase:  s.eventBase(domain.EventCommit),
			Units:      s.stats.units,
			Slices:     s.stats.slices,
			Placements: stats.placements,
			Updates:    stats.updates,
			Deletions:  stats.deletions,
			Duration:   s.now().Sub(start),
		})
	}

	s.startQueued()
}

// commitPlacement applies the initial props of a freshly created node and
// attaches it under the nearest host-owning ancestor.
func (s *Session) commitPlacement(ctx context.Context, h fiber.Handle) {
	f := s.arena.Get(h)
	if !f.HasHost() {
		return
	}

	s.applyProps(ctx, f.Host, f.Type, baselineProps(f), f.Props)

	parent := s.hostParent(h)
	if parent == nil {
		return
	}
	if ins, ok := s.host.(ports.Inserter); ok {
		if before := s.nextRetainedHost(h); before != nil {
			ins.InsertBefore(parent, f.Host, before)
			s.emit(ctx, domain.Mutation{Kind: domain.MutationInsert, Tag: f.Type})
			return
		}
	}
	s.host.AppendChild(parent, f.Host)
	s.emit(ctx, domain.Mutation{Kind: domain.MutationInsert, Tag: f.Type})
}

// commitUpdate diffs the previous and next props on the retained host node.
func (s *Session) commitUpdate(ctx context.Context, h fiber.Handle) {
	f := s.arena.Get(h)
	if !f.HasHost() {
		return
	}
	var prev domain.Props
	if alt := s.arena.Get(f.Alternate); alt != nil {
		prev = alt.Props
	}
	s.applyProps(ctx, f.Host, f.Type, prev, f.Props)
}

// commitDeletion removes the fiber's host node from hostParent, or, for a
// fiber without a host node of its own, the host nodes of its children.
func (s *Session) commitDeletion(ctx context.Context, h fiber.Handle, hostParent ports.HostNode) {
	f := s.arena.Get(h)
	if f == nil {
		return
	}
	if f.HasHost() {
		if hostParent != nil {
			s.host.RemoveChild(hostParent, f.Host)
			s.emit(ctx, domain.Mutation{Kind: domain.MutationRemove, Tag: f.Type})
		}
		return
	}
	for _, c := range s.arena.Children(h) {
		s.commitDeletion(ctx, c, hostParent)
	}
}

// applyProps turns prev into next on node: stale handlers off, removed
// attributes reset, changed attributes set, new handlers on.
func (s *Session) applyProps(ctx context.Context, node ports.HostNode, tag string, prev, next domain.Props) {
	d := domain.DiffProps(prev, next)

	for _, hc := range d.RemovedHandlers {
		s.host.RemoveEventListener(node, hc.Event, hc.Listener)
		s.emit(ctx, domain.Mutation{Kind: domain.MutationRemoveListener, Tag: tag, Name: hc.Event})
	}
	for _, name := range d.RemovedAttrs {
		s.host.RemoveAttribute(node, name)
		s.emit(ctx, domain.Mutation{Kind: domain.MutationRemoveAttribute, Tag: tag, Name: name})
	}
	for _, ac := range d.SetAttrs {
		s.host.SetAttribute(node, ac.Name, ac.Value)
		s.emit(ctx, domain.Mutation{Kind: domain.MutationSetAttribute, Tag: tag, Name: ac.Name, Value: ac.Value})
	}
	for _, hc := range d.AddedHandlers {
		s.host.AddEventListener(node, hc.Event, hc.Listener)
		s.emit(ctx, domain.Mutation{Kind: domain.MutationAddListener, Tag: tag, Name: hc.Event})
	}
}

// hostParent returns the host node of the nearest ancestor that owns one.
func (s *Session) hostParent(h fiber.Handle) ports.HostNode {
	f := s.arena.Get(h)
	if f == nil {
		return nil
	}
	for p := s.arena.Get(f.Parent); p != nil; p = s.arena.Get(p.Parent) {
		if p.HasHost() {
			return p.Host
		}
	}
	return nil
}

// nextRetainedHost finds the first host node after h, under the same host
// parent, that is already attached (a node kept by an update). Placements that
// follow h are not attached yet and are skipped.
func (s *Session) nextRetainedHost(h fiber.Handle) ports.HostNode {
	for cur := h; !cur.IsNil(); {
		f := s.arena.Get(cur)
		for sib := f.Sibling; !sib.IsNil(); sib = s.arena.Get(sib).Sibling {
			if n := s.firstRetainedHost(sib); n != nil {
				return n
			}
		}
		parent := s.arena.Get(f.Parent)
		if parent == nil || parent.HasHost() {
			return nil
		}
		cur = f.Parent
	}
	return nil
}

func (s *Session) firstRetainedHost(h fiber.Handle) ports.HostNode {
	f := s.arena.Get(h)
	if f == nil || f.Effect != domain.EffectUpdate {
		return nil
	}
	if f.HasHost() {
		return f.Host
	}
	for _, c := range s.arena.Children(h) {
		if n := s.firstRetainedHost(c); n != nil {
			return n
		}
	}
	return nil
}

func (s *Session) emit(ctx context.Context, m domain.Mutation) {
	if s.hooks.OnMutation == nil {
		return
	}
	s.hooks.OnMutation(ctx, &domain.MutationEvent{
		EventBase: s.eventBase(domain.EventMutation),
		Mutation:  m,
	})
}

// baselineProps is what a freshly created host node already reflects.
func baselineProps(f *fiber.Fiber) domain.Props {
	if f.Type == domain.TextElement {
		return domain.Props{NodeValue: f.Props.NodeValue}
	}
	return domain.Props{}
}
