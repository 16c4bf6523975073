package tui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/reactless/pkg/domain"
)

// Printer writes host trees and mutation logs for humans.
type Printer struct {
	out     io.Writer
	profile termenv.Profile
}

// NewPrinter creates a printer. Colors are used only when color is true.
func NewPrinter(w io.Writer, color bool) *Printer {
	profile := termenv.Ascii
	if color {
		profile = termenv.EnvColorProfile()
	}
	return &Printer{out: w, profile: profile}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Profile returns the color profile in use.
func (p *Printer) Profile() termenv.Profile {
	return p.profile
}

func (p *Printer) paint(s, color string) termenv.Style {
	return p.profile.String(s).Foreground(p.profile.Color(color))
}

// Tree writes the snapshot as an indented tree with box-drawing guides.
func (p *Printer) Tree(s domain.Snapshot) {
	fmt.Fprintln(p.out, p.label(s))
	p.children(s.Children, "")
}

func (p *Printer) children(nodes []domain.Snapshot, prefix string) {
	for i, c := range nodes {
		branch, indent := "├── ", "│   "
		if i == len(nodes)-1 {
			branch, indent = "└── ", "    "
		}
		fmt.Fprintf(p.out, "%s%s%s\n", prefix, branch, p.label(c))
		p.children(c.Children, prefix+indent)
	}
}

func (p *Printer) label(s domain.Snapshot) string {
	if s.Tag == domain.TextElement {
		return p.paint(strconv.Quote(s.Value), "#a3e635").String()
	}

	var sb strings.Builder
	sb.WriteString(p.paint(s.Tag, "#818cf8").Bold().String())
	for _, k := range sortedKeys(s.Attrs) {
		sb.WriteString(" ")
		sb.WriteString(p.paint(fmt.Sprintf("%s=%q", k, s.Attrs[k]), "#94a3b8").String())
	}
	for _, l := range s.Listeners {
		sb.WriteString(" ")
		sb.WriteString(p.paint("@"+l, "#f472b6").String())
	}
	return sb.String()
}

// Mutations writes a numbered table of mutations. An empty log prints a one-line notice.
func (p *Printer) Mutations(muts []domain.Mutation) {
	if len(muts) == 0 {
		fmt.Fprintln(p.out, p.paint("no host mutations", "#facc15"))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "KIND", "TAG", "NAME", "VALUE"})
	for i, m := range muts {
		kind := p.paint(string(m.Kind), "#22d3ee")
		if m.IsStructural() {
			kind = p.paint(string(m.Kind), "#facc15")
		}
		t.AppendRow(table.Row{i + 1, kind.String(), m.Tag, m.Name, m.Value})
	}
	t.AppendFooter(table.Row{"", "TOTAL", len(muts)})
	t.Render()
}

// Fibers writes the committed fiber tree, one fiber per line with its effect.
func (p *Printer) Fibers(infos []domain.FiberInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"FIBER", "EFFECT", "HOST"})
	for _, info := range infos {
		host := "no"
		if info.HasHost {
			host = "yes"
		}
		t.AppendRow(table.Row{strings.Repeat("  ", info.Depth) + info.Type, info.Effect.String(), host})
	}
	t.Render()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
