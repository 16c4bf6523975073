package reactless_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/reactless"
	"github.com/aretw0/reactless/pkg/adapters/memory"
	"github.com/aretw0/reactless/pkg/adapters/scheduler"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/vdom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacade_RequiresHost(t *testing.T) {
	_, err := reactless.New(nil)
	assert.Error(t, err)
}

func TestFacade_LoopIntegration(t *testing.T) {
	host := memory.NewHost()
	container := host.NewContainer("root")

	var commits int
	eng, err := reactless.New(host,
		reactless.WithFrame(time.Millisecond, 2*time.Millisecond),
		reactless.WithSafetyMargin(0),
		reactless.WithLifecycleHooks(domain.LifecycleHooks{
			OnCommit: func(context.Context, *domain.CommitEvent) { commits++ },
		}),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- eng.Run(runCtx) }()

	clicked := make(chan struct{}, 1)
	onClick := vdom.On("ping", func(domain.Event) { clicked <- struct{}{} })
	app := vdom.CreateElement("div", &domain.Props{ID: "app"},
		vdom.CreateElement("button", vdom.Handlers(&domain.Props{ID: "btn"}, "onClick", onClick), "ping"),
	)

	require.NoError(t, eng.Render(ctx, container, app))
	require.NoError(t, eng.Wait(ctx, time.Millisecond))

	assert.Equal(t, "ping", host.Snapshot(container).Text())
	btn := host.FindByID(container, "btn")
	require.NotNil(t, btn)
	assert.Equal(t, 1, host.Dispatch(btn, domain.Event{Type: "click"}))
	<-clicked

	infos, err := eng.Inspect(ctx, container)
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "div", infos[0].Type)
	assert.Equal(t, 0, infos[0].Depth)
	assert.Equal(t, "button", infos[1].Type)
	assert.Equal(t, 1, infos[1].Depth)

	stop()
	require.NoError(t, <-done)

	// Commit hooks run on the loop goroutine, which has stopped by now.
	assert.Equal(t, 1, commits)

	err = eng.Render(ctx, container, app)
	assert.ErrorIs(t, err, domain.ErrEngineStopped)
}

func TestFacade_FrameBudgetMustExceedMargin(t *testing.T) {
	host := memory.NewHost()

	_, err := reactless.New(host, reactless.WithFrame(2*time.Millisecond, time.Millisecond))
	assert.ErrorIs(t, err, reactless.ErrFrameBudget)

	_, err = reactless.New(host,
		reactless.WithFrame(2*time.Millisecond, time.Millisecond),
		reactless.WithSafetyMargin(100*time.Microsecond),
	)
	assert.NoError(t, err)

	// An injected scheduler brings its own budget.
	_, err = reactless.New(host,
		reactless.WithScheduler(scheduler.NewManual()),
		reactless.WithFrame(2*time.Millisecond, time.Millisecond),
	)
	assert.NoError(t, err)
}

func TestFacade_SmallFrameRenders(t *testing.T) {
	host := memory.NewHost()
	container := host.NewContainer("root")
	eng, err := reactless.New(host, reactless.WithFrame(2*time.Millisecond, 2*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- eng.Run(runCtx) }()

	require.NoError(t, eng.Render(ctx, container, vdom.Text("hello")))
	require.NoError(t, eng.WaitFor(ctx, container, time.Millisecond))
	assert.Equal(t, "hello", host.Snapshot(container).Text())

	stop()
	require.NoError(t, <-done)
}

func TestFacade_WaitForAndForget(t *testing.T) {
	host := memory.NewHost()
	mine := host.NewContainer("mine")
	busy := host.NewContainer("busy")
	sched := scheduler.NewManual()
	eng, err := reactless.New(host, reactless.WithScheduler(sched))
	require.NoError(t, err)

	ctx := context.Background()
	items := make([]any, 0, 100)
	for i := 0; i < 100; i++ {
		items = append(items, vdom.CreateElement("li", nil, "item"))
	}
	require.NoError(t, eng.Render(ctx, mine, vdom.Text("mine")))
	require.NoError(t, eng.Render(ctx, busy, vdom.CreateElement("ul", nil, items...)))
	require.True(t, sched.Step(3))

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, eng.WaitFor(waitCtx, mine, time.Millisecond))
	assert.Equal(t, "mine", host.Snapshot(mine).Text())

	shortCtx, cancelShort := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancelShort()
	assert.ErrorIs(t, eng.Wait(shortCtx, time.Millisecond), context.DeadlineExceeded)

	require.NoError(t, eng.Forget(ctx, busy))
	idle, err := eng.Idle(ctx)
	require.NoError(t, err)
	assert.True(t, idle)
	infos, err := eng.Inspect(ctx, busy)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestFacade_Version(t *testing.T) {
	assert.NotEmpty(t, reactless.Version)
	assert.NotContains(t, reactless.Version, "\n")
}
