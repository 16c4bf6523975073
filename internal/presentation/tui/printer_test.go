package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/reactless/internal/presentation/tui"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_Tree(t *testing.T) {
	var buf bytes.Buffer
	p := tui.NewPrinter(&buf, false)

	p.Tree(domain.Snapshot{
		Tag: "root",
		Children: []domain.Snapshot{{
			Tag:       "div",
			Attrs:     map[string]string{"id": "app", "className": "main"},
			Listeners: []string{"click"},
			Children: []domain.Snapshot{
				{Tag: "span", Children: []domain.Snapshot{{Tag: domain.TextElement, Value: "A"}}},
				{Tag: domain.TextElement, Value: "B"},
			},
		}},
	})

	expected := `root
└── div className="main" id="app" @click
    ├── span
    │   └── "A"
    └── "B"
`
	assert.Equal(t, expected, buf.String())
}

func TestPrinter_Mutations(t *testing.T) {
	var buf bytes.Buffer
	p := tui.NewPrinter(&buf, false)

	p.Mutations(nil)
	assert.Equal(t, "no host mutations\n", buf.String())

	buf.Reset()
	p.Mutations([]domain.Mutation{
		{Kind: domain.MutationRemove, Tag: "span"},
		{Kind: domain.MutationSetAttribute, Tag: domain.TextElement, Name: "nodeValue", Value: "C"},
	})
	out := buf.String()
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "remove")
	assert.Contains(t, out, "set_attribute")
	assert.Contains(t, out, "nodeValue")
	assert.Contains(t, out, "TOTAL")
	assert.NotContains(t, out, "\x1b[", "no escape codes without color")
}

func TestPrinter_Fibers(t *testing.T) {
	var buf bytes.Buffer
	tui.NewPrinter(&buf, false).Fibers([]domain.FiberInfo{
		{Depth: 0, Type: "div", Effect: domain.EffectPlacement, HasHost: true},
		{Depth: 1, Type: domain.Fragment, Effect: domain.EffectUpdate},
	})
	out := buf.String()
	assert.Contains(t, out, "PLACEMENT")
	assert.Contains(t, out, "  FRAGMENT")
	assert.Contains(t, out, "no")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, termenv.Ascii, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
	assert.NotContains(t, buf.String(), "\x1b[")
}
