package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/reactless"
	"github.com/aretw0/reactless/pkg/adapters/memory"
	"github.com/aretw0/reactless/pkg/adapters/scheduler"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/observability"
)

// maxSlices bounds how long a document may keep the manual scheduler busy.
const maxSlices = 1 << 20

// workbench renders documents into one in-memory container, driving the
// engine by hand with a fixed number of units per slice.
type workbench struct {
	host      *memory.Host
	container *memory.Node
	sched     *scheduler.Manual
	engine    *reactless.Engine
	recorder  *observability.Recorder
	budget    int
}

// passResult describes one committed render.
type passResult struct {
	Slices    int
	Mutations []domain.Mutation
}

// createWorkbench initializes an engine with standard CLI conventions.
func createWorkbench(opts RenderOptions, logger *slog.Logger) (*workbench, error) {
	host := memory.NewHost()
	wb := &workbench{
		host:      host,
		container: host.NewContainer("root"),
		sched:     scheduler.NewManual(),
		recorder:  observability.NewRecorder(),
		budget:    opts.Budget,
	}

	engineOpts := []reactless.Option{
		reactless.WithLogger(logger),
		reactless.WithScheduler(wb.sched),
		reactless.WithLifecycleHooks(wb.recorder.Hooks()),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, reactless.WithLifecycleHooks(observability.LogHooks(logger)))
	}

	engine, err := reactless.New(host, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	wb.engine = engine
	return wb, nil
}

// render schedules el and grants slices until the pass has committed.
func (wb *workbench) render(ctx context.Context, el domain.Element) (passResult, error) {
	if err := wb.engine.Render(ctx, wb.container, el); err != nil {
		return passResult{}, err
	}

	idle := func() bool {
		ok, _ := wb.engine.Idle(ctx)
		return ok
	}
	slices := wb.sched.RunUntil(wb.budget, idle, maxSlices)
	if !idle() {
		return passResult{}, fmt.Errorf("render did not commit after %d slices", slices)
	}

	return passResult{
		Slices:    slices,
		Mutations: wb.recorder.Take(wb.container.String()),
	}, nil
}

func (wb *workbench) snapshot() domain.Snapshot {
	return wb.host.Snapshot(wb.container)
}

func (wb *workbench) inspect(ctx context.Context) ([]domain.FiberInfo, error) {
	return wb.engine.Inspect(ctx, wb.container)
}
