package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventRenderStart EventType = "render_start"
	EventSlice       EventType = "slice"
	EventCommit      EventType = "commit"
	EventAbandon     EventType = "abandon"
	EventMutation    EventType = "mutation"
)

// EventBase contains common fields for all lifecycle events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Container string    `json:"container"`
	Pass      uint64    `json:"pass"`
}

// RenderEvent is emitted when a render pass starts or is abandoned.
type RenderEvent struct {
	EventBase
	Restarted bool `json:"restarted,omitempty"`
}

// SliceEvent is emitted at the end of every scheduling grant that performed work.
type SliceEvent struct {
	EventBase
	Units     int           `json:"units"`
	Remaining time.Duration `json:"remaining"`
	Exhausted bool          `json:"exhausted"`
}

// CommitEvent is emitted after a commit phase completes.
type CommitEvent struct {
	EventBase
	Units      int           `json:"units"`
	Slices     int           `json:"slices"`
	Placements int           `json:"placements"`
	Updates    int           `json:"updates"`
	Deletions  int           `json:"deletions"`
	Duration   time.Duration `json:"duration"`
}

// MutationEvent is emitted for every primitive host mutation applied during commit.
type MutationEvent struct {
	EventBase
	Mutation
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the scheduler's thread; they must not call back into the engine.
type LifecycleHooks struct {
	OnRenderStart func(context.Context, *RenderEvent)
	OnAbandon     func(context.Context, *RenderEvent)
	OnSlice       func(context.Context, *SliceEvent)
	OnCommit      func(context.Context, *CommitEvent)
	OnMutation    func(context.Context, *MutationEvent)
}

// Merge returns hooks that invoke h first and then other, for every callback.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRenderStart: chain(h.OnRenderStart, other.OnRenderStart),
		OnAbandon:     chain(h.OnAbandon, other.OnAbandon),
		OnSlice:       chain(h.OnSlice, other.OnSlice),
		OnCommit:      chain(h.OnCommit, other.OnCommit),
		OnMutation:    chain(h.OnMutation, other.OnMutation),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
