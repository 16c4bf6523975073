package memory

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/ports"
)

// Node is a node of the in-memory host tree.
type Node struct {
	Tag   string
	Value string // text nodes only

	serial    int
	attrs     map[string]string
	listeners map[string][]*domain.Listener
	parent    *Node
	children  []*Node
}

// String identifies the node in logs ("div#3").
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%d", n.Tag, n.serial)
}

// Attr returns the value of a plain attribute.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// Parent returns the node's parent, or nil when detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// Host implements ports.Host with a plain Go tree. It records every mutation in
// a journal so tests and tools can see exactly what a commit did.
// Safe for concurrent use; listeners run outside the lock.
type Host struct {
	mu      sync.Mutex
	serial  int
	journal []domain.Mutation
}

var (
	_ ports.InspectableHost = (*Host)(nil)
	_ ports.Inserter        = (*Host)(nil)
)

// NewHost creates an empty in-memory host.
func NewHost() *Host {
	return &Host{}
}

// NewContainer creates a detached element to render into. It is not journaled.
func (h *Host) NewContainer(tag string) *Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.newNode(normalizeTag(tag))
}

func (h *Host) newNode(tag string) *Node {
	h.serial++
	return &Node{
		Tag:       tag,
		serial:    h.serial,
		attrs:     make(map[string]string),
		listeners: make(map[string][]*domain.Listener),
	}
}

// CreateElement constructs a detached element node.
func (h *Host) CreateElement(tag string) ports.HostNode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.newNode(normalizeTag(tag))
}

// CreateText constructs a detached text node.
func (h *Host) CreateText(value string) ports.HostNode {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := h.newNode(domain.TextElement)
	n.Value = value
	return n
}

// SetAttribute sets a plain attribute; "nodeValue" on a text node sets its text.
func (h *Host) SetAttribute(node ports.HostNode, name, value string) {
	n := asNode(node)
	if n == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if n.Tag == domain.TextElement && name == domain.AttrNodeValue {
		n.Value = value
	} else {
		n.attrs[name] = value
	}
	h.record(domain.MutationSetAttribute, n.Tag, name, value)
}

// RemoveAttribute resets a plain attribute.
func (h *Host) RemoveAttribute(node ports.HostNode, name string) {
	n := asNode(node)
	if n == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if n.Tag == domain.TextElement && name == domain.AttrNodeValue {
		n.Value = ""
	} else {
		delete(n.attrs, name)
	}
	h.record(domain.MutationRemoveAttribute, n.Tag, name, "")
}

// AddEventListener registers l. Registering the same listener twice is a no-op.
func (h *Host) AddEventListener(node ports.HostNode, event string, l *domain.Listener) {
	n := asNode(node)
	if n == nil || l == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if slices.Contains(n.listeners[event], l) {
		return
	}
	n.listeners[event] = append(n.listeners[event], l)
	h.record(domain.MutationAddListener, n.Tag, event, l.Name)
}

// RemoveEventListener detaches l.
func (h *Host) RemoveEventListener(node ports.HostNode, event string, l *domain.Listener) {
	n := asNode(node)
	if n == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	i := slices.Index(n.listeners[event], l)
	if i < 0 {
		return
	}
	n.listeners[event] = slices.Delete(n.listeners[event], i, i+1)
	if len(n.listeners[event]) == 0 {
		delete(n.listeners, event)
	}
	h.record(domain.MutationRemoveListener, n.Tag, event, l.Name)
}

// AppendChild moves child to the end of parent's children.
func (h *Host) AppendChild(parent, child ports.HostNode) {
	p, c := asNode(parent), asNode(child)
	if p == nil || c == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	detach(c)
	c.parent = p
	p.children = append(p.children, c)
	h.record(domain.MutationInsert, c.Tag, "", "")
}

// InsertBefore moves child in front of before. If before is not a child of
// parent, child is appended.
func (h *Host) InsertBefore(parent, child, before ports.HostNode) {
	p, c, b := asNode(parent), asNode(child), asNode(before)
	if p == nil || c == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	detach(c)
	c.parent = p
	if i := slices.Index(p.children, b); b != nil && i >= 0 {
		p.children = slices.Insert(p.children, i, c)
	} else {
		p.children = append(p.children, c)
	}
	h.record(domain.MutationInsert, c.Tag, "", "")
}

// RemoveChild removes child from parent. Unrelated nodes are ignored.
func (h *Host) RemoveChild(parent, child ports.HostNode) {
	p, c := asNode(parent), asNode(child)
	if p == nil || c == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.parent != p {
		return
	}
	detach(c)
	h.record(domain.MutationRemove, c.Tag, "", "")
}

// Children returns a copy of node's children.
func (h *Host) Children(node ports.HostNode) []ports.HostNode {
	n := asNode(node)
	if n == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ports.HostNode, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Snapshot returns a detached copy of the subtree rooted at node.
func (h *Host) Snapshot(node ports.HostNode) domain.Snapshot {
	n := asNode(node)
	if n == nil {
		return domain.Snapshot{}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return snapshot(n)
}

// Dispatch runs node's listeners for e.Type and returns how many ran.
func (h *Host) Dispatch(node ports.HostNode, e domain.Event) int {
	n := asNode(node)
	if n == nil {
		return 0
	}
	h.mu.Lock()
	ls := slices.Clone(n.listeners[e.Type])
	h.mu.Unlock()

	if e.Target == nil {
		e.Target = n
	}
	for _, l := range ls {
		l.Handle(e)
	}
	return len(ls)
}

// FindByID returns the first node under root (inclusive, pre-order) whose id attribute matches.
func (h *Host) FindByID(root *Node, id string) *Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	var find func(*Node) *Node
	find = func(n *Node) *Node {
		if n.attrs[domain.AttrID] == id {
			return n
		}
		for _, c := range n.children {
			if f := find(c); f != nil {
				return f
			}
		}
		return nil
	}
	if root == nil {
		return nil
	}
	return find(root)
}

// Journal returns the mutations recorded since the last reset.
func (h *Host) Journal() []domain.Mutation {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.journal)
}

// ResetJournal clears the mutation journal.
func (h *Host) ResetJournal() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.journal = nil
}

func (h *Host) record(kind domain.MutationKind, tag, name, value string) {
	h.journal = append(h.journal, domain.Mutation{Kind: kind, Tag: tag, Name: name, Value: value})
}

func snapshot(n *Node) domain.Snapshot {
	s := domain.Snapshot{Tag: n.Tag}
	if n.Tag == domain.TextElement {
		s.Value = n.Value
		return s
	}
	if len(n.attrs) > 0 {
		s.Attrs = make(map[string]string, len(n.attrs))
		for k, v := range n.attrs {
			s.Attrs[k] = v
		}
	}
	for event := range n.listeners {
		s.Listeners = append(s.Listeners, event)
	}
	sort.Strings(s.Listeners)
	for _, c := range n.children {
		s.Children = append(s.Children, snapshot(c))
	}
	return s
}

func detach(c *Node) {
	if c.parent == nil {
		return
	}
	p := c.parent
	if i := slices.Index(p.children, c); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	c.parent = nil
}

func asNode(n ports.HostNode) *Node {
	node, _ := n.(*Node)
	return node
}

func normalizeTag(tag string) string {
	if tag == "" {
		return domain.DefaultTag
	}
	return tag
}
