package domain

import (
	"fmt"
	"strings"
)

// Snapshot is a detached, serializable copy of a host subtree.
// Text nodes have Tag == TextElement and carry their text in Value.
type Snapshot struct {
	Tag       string            `json:"tag"`
	Value     string            `json:"value,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	Listeners []string          `json:"listeners,omitempty"`
	Children  []Snapshot        `json:"children,omitempty"`
}

// Text concatenates the values of all text nodes in the subtree, in tree order.
func (s Snapshot) Text() string {
	var sb strings.Builder
	s.walk(func(n Snapshot, _ int) {
		if n.Tag == TextElement {
			sb.WriteString(n.Value)
		}
	})
	return sb.String()
}

// Count returns the number of nodes in the subtree, including s.
func (s Snapshot) Count() int {
	n := 0
	s.walk(func(Snapshot, int) { n++ })
	return n
}

// String renders the subtree as an indented outline, one node per line.
func (s Snapshot) String() string {
	var sb strings.Builder
	s.walk(func(n Snapshot, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		if n.Tag == TextElement {
			fmt.Fprintf(&sb, "%q\n", n.Value)
			return
		}
		sb.WriteString("<" + n.Tag)
		for _, k := range sortedKeys(n.Attrs) {
			fmt.Fprintf(&sb, " %s=%q", k, n.Attrs[k])
		}
		for _, l := range n.Listeners {
			fmt.Fprintf(&sb, " @%s", l)
		}
		sb.WriteString(">\n")
	})
	return sb.String()
}

func (s Snapshot) walk(fn func(Snapshot, int)) {
	var visit func(Snapshot, int)
	visit = func(n Snapshot, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	visit(s, 0)
}
