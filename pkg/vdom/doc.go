/*
Package vdom builds Element trees for the reactless engine.

It is a thin helper over pkg/domain: CreateElement takes a tag, a property bag and
any mix of child values, and normalizes them the way the engine expects. Strings
and numbers become text elements, nested slices are flattened, and values that
are neither elements nor text (nil, booleans, structs) are skipped.

Example usage:

	clicked := vdom.On("clicked", func(e domain.Event) { log.Println("clicked") })

	app := vdom.CreateElement("div", &domain.Props{ID: "app"},
		vdom.CreateElement("span", nil, "A"),
		vdom.CreateElement("button", vdom.Handlers(&domain.Props{}, "onClick", clicked), "B"),
	)

	eng.Render(ctx, container, app)
*/
package vdom
