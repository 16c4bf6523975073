/*
Package reactless is an incremental UI reconciliation engine.

It turns a declarative description of a user interface (a tree of elements)
into the minimal set of mutations needed to bring a host tree up to date, and
it does the work in small slices so that the thread it runs on never stays
busy for long.

# Concept

Rendering happens in two phases. The render phase walks the new element tree
one fiber at a time, diffing it against what was last committed, and can be
suspended between any two units of work whenever the scheduler's budget runs
out. The commit phase then applies every recorded change to the host in one
uninterrupted pass, so the host never shows a half-updated tree.

The host is anything implementing ports.Host. The library ships an in-memory
host (pkg/adapters/memory) that records a mutation journal, and two
schedulers: a real frame loop and a manual one for deterministic tests.

# Key Features

  - Interruptible rendering: work is split into units bounded by a time budget.
  - Atomic commits: host mutations happen only after a pass is fully reconciled.
  - Minimal mutations: retained nodes only see the attributes and handlers that changed.
  - Render policies: restart, queue or reject renders requested mid-pass.

# Usage

	package main

	import (
		"context"
		"fmt"
		"time"

		"github.com/aretw0/reactless"
		"github.com/aretw0/reactless/pkg/adapters/memory"
		"github.com/aretw0/reactless/pkg/domain"
		"github.com/aretw0/reactless/pkg/vdom"
	)

	func main() {
		host := memory.NewHost()
		container := host.NewContainer("root")

		eng, _ := reactless.New(host)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go eng.Run(ctx)

		app := vdom.CreateElement("div", &domain.Props{ID: "app"},
			vdom.CreateElement("span", nil, "Hello"),
		)
		_ = eng.Render(ctx, container, app)
		_ = eng.Wait(ctx, time.Millisecond)

		fmt.Print(host.Snapshot(container))
	}
*/
package reactless
