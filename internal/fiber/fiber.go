// Package fiber holds the work-in-progress and committed fiber trees of a render session.
//
// Fibers live in an Arena and reference each other through Handles instead of
// pointers, so the committed tree and the tree being reconciled can coexist and
// cross-reference each other (alternate links) without ambiguous ownership.
package fiber

import (
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/ports"
)

// Handle references a fiber in an Arena. The zero Handle is "no fiber".
type Handle uint32

// Nil is the absent fiber.
const Nil Handle = 0

// IsNil reports whether h references no fiber.
func (h Handle) IsNil() bool { return h == Nil }

// Fiber is the unit of work and the persistent record of one rendered position.
type Fiber struct {
	// Type is the element tag; empty for the synthetic root fiber.
	Type  string
	Props domain.Props

	// Host is the host node this fiber represents. The root's Host is the
	// caller's container and is never created or removed by the engine.
	Host ports.HostNode

	Parent    Handle
	Child     Handle
	Sibling   Handle
	Alternate Handle

	Effect domain.EffectTag

	// Pass is the render pass that allocated the fiber.
	Pass uint64
}

// HasHost reports whether the fiber owns (or, for the root, points at) a host node.
func (f *Fiber) HasHost() bool {
	return f.Host != nil
}
