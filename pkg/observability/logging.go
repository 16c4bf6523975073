package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/reactless/pkg/domain"
)

// LogHooks returns lifecycle hooks that log every pass event.
// Pass boundaries are logged at Info, slices and mutations at Debug.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRenderStart: func(ctx context.Context, e *domain.RenderEvent) {
			logger.InfoContext(ctx, "render_start",
				"container", e.Container,
				"pass", e.Pass,
				"restarted", e.Restarted,
			)
		},
		OnAbandon: func(ctx context.Context, e *domain.RenderEvent) {
			logger.InfoContext(ctx, "render_abandon", "container", e.Container, "pass", e.Pass)
		},
		OnSlice: func(ctx context.Context, e *domain.SliceEvent) {
			logger.DebugContext(ctx, "slice",
				"container", e.Container,
				"pass", e.Pass,
				"units", e.Units,
				"exhausted", e.Exhausted,
			)
		},
		OnCommit: func(ctx context.Context, e *domain.CommitEvent) {
			logger.InfoContext(ctx, "commit",
				"container", e.Container,
				"pass", e.Pass,
				"units", e.Units,
				"slices", e.Slices,
				"placements", e.Placements,
				"updates", e.Updates,
				"deletions", e.Deletions,
				"duration", e.Duration,
			)
		},
		OnMutation: func(ctx context.Context, e *domain.MutationEvent) {
			logger.DebugContext(ctx, "mutation",
				"container", e.Container,
				"kind", e.Kind,
				"tag", e.Tag,
				"name", e.Name,
			)
		},
	}
}
