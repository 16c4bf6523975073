package runtime

import (
	"github.com/aretw0/reactless/internal/fiber"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/ports"
)

// performUnitOfWork materializes the fiber's host node, reconciles its children
// against the previous tree and returns the next fiber of the pre-order walk
// (Nil once the walk is back at the root).
func (s *Session) performUnitOfWork(h fiber.Handle) fiber.Handle {
	f := s.arena.Get(h)
	if f == nil {
		return fiber.Nil
	}

	// 1. Materialize a detached host node (no tree insertion here)
	if !isHostless(f.Type) && f.Host == nil {
		f.Host = s.createHostNode(f.Type, f.Props)
	}

	// 2. Diff children against the alternate's children; text has none
	if f.Type != domain.TextElement {
		s.reconcileChildren(h, f.Props.Children)
	}

	s.stats.units++

	// 3. Child, else the nearest unvisited sibling up the parent chain
	return s.arena.Next(h, s.wipRoot)
}

// reconcileChildren walks the new elements and the alternate's child chain in
// lockstep by position. Matching is positional only; there is no key support.
func (s *Session) reconcileChildren(h fiber.Handle, elements []domain.Element) {
	old := fiber.Nil
	if wip := s.arena.Get(h); wip != nil {
		if alt := s.arena.Get(wip.Alternate); alt != nil {
			old = alt.Child
		}
	}

	prev := fiber.Nil
	for i := 0; i < len(elements) || !old.IsNil(); i++ {
		var element *domain.Element
		if i < len(elements) {
			element = &elements[i]
		}

		// Read everything needed from the old fiber before allocating:
		// Alloc may grow the arena and invalidate fiber pointers.
		var (
			oldType    string
			oldHost    ports.HostNode
			oldSibling = fiber.Nil
		)
		if of := s.arena.Get(old); of != nil {
			oldType, oldHost, oldSibling = of.Type, of.Host, of.Sibling
		}

		var tag string
		if element != nil {
			tag = normalizeType(element.Type)
		}
		sameType := element != nil && !old.IsNil() && tag == oldType

		next := fiber.Nil
		switch {
		case sameType:
			next = s.arena.Alloc(fiber.Fiber{
				Type:      oldType,
				Props:     element.Props,
				Host:      oldHost,
				Parent:    h,
				Alternate: old,
				Effect:    domain.EffectUpdate,
				Pass:      s.pass,
			})
		case element != nil:
			next = s.arena.Alloc(fiber.Fiber{
				Type:   tag,
				Props:  element.Props,
				Parent: h,
				Effect: domain.EffectPlacement,
				Pass:   s.pass,
			})
		}

		if !sameType && !old.IsNil() {
			of := s.arena.Get(old)
			s.deletions = append(s.deletions, deletion{fiber: old, prev: of.Effect})
			of.Effect = domain.EffectDeletion
		}

		if !next.IsNil() {
			if prev.IsNil() {
				s.arena.Get(h).Child = next
			} else {
				s.arena.Get(prev).Sibling = next
			}
			prev = next
		}

		old = oldSibling
	}
}

// createHostNode builds a bare host node. Text nodes carry their value from
// creation; every other attribute and listener is applied at commit time.
func (s *Session) createHostNode(tag string, props domain.Props) ports.HostNode {
	if tag == domain.TextElement {
		return s.host.CreateText(props.NodeValue)
	}
	return s.host.CreateElement(tag)
}

// normalizeType maps an element without a type to the generic container tag.
func normalizeType(t string) string {
	if t == "" {
		return domain.DefaultTag
	}
	return t
}

// isHostless reports whether fibers of this type are structural wrappers with
// no host node of their own (the synthetic root and fragments).
func isHostless(t string) bool {
	return t == "" || t == domain.Fragment
}
