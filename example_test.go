package reactless_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/reactless"
	"github.com/aretw0/reactless/pkg/adapters/memory"
	"github.com/aretw0/reactless/pkg/adapters/scheduler"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/vdom"
)

// ExampleNew_manual drives the engine with a manual scheduler, two units of work per grant.
func ExampleNew_manual() {
	host := memory.NewHost()
	container := host.NewContainer("root")
	sched := scheduler.NewManual()

	eng, err := reactless.New(host, reactless.WithScheduler(sched))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	app := vdom.CreateElement("div", &domain.Props{ID: "app"},
		vdom.CreateElement("span", nil, "Hello"),
	)
	if err := eng.Render(ctx, container, app); err != nil {
		log.Fatal(err)
	}

	idle := func() bool {
		ok, _ := eng.Idle(ctx)
		return ok
	}
	steps := sched.RunUntil(2, idle, 100)

	fmt.Printf("grants: %d\n", steps)
	fmt.Print(host.Snapshot(container))
	// Output:
	// grants: 2
	// <root>
	//   <div id="app">
	//     <span>
	//       "Hello"
}

// ExampleEngine_Render_update shows that a re-render only touches what changed.
func ExampleEngine_Render_update() {
	host := memory.NewHost()
	container := host.NewContainer("root")
	sched := scheduler.NewManual()
	eng, _ := reactless.New(host, reactless.WithScheduler(sched))

	ctx := context.Background()
	idle := func() bool {
		ok, _ := eng.Idle(ctx)
		return ok
	}
	counter := func(n int) domain.Element {
		return vdom.CreateElement("p", &domain.Props{ClassName: "counter"}, "count: ", n)
	}

	_ = eng.Render(ctx, container, counter(1))
	sched.RunUntil(100, idle, 10)
	host.ResetJournal()

	_ = eng.Render(ctx, container, counter(2))
	sched.RunUntil(100, idle, 10)

	for _, m := range host.Journal() {
		fmt.Println(m.Kind, m.Name, m.Value)
	}
	// Output:
	// set_attribute nodeValue 2
}
