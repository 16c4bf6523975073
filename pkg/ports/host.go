package ports

import "github.com/aretw0/reactless/pkg/domain"

// HostNode is an opaque handle to a node of the host tree.
// Containers passed to the engine must be comparable (pointers are).
type HostNode any

// Host defines the host-environment primitives the commit phase needs.
// Every method is expected to succeed; hosts that can fail should log and carry on,
// since a commit must never stop halfway.
type Host interface {
	// CreateElement constructs a detached element node for the given tag.
	CreateElement(tag string) HostNode

	// CreateText constructs a detached text node holding value.
	CreateText(value string) HostNode

	// SetAttribute sets a plain attribute. For text nodes, "nodeValue" sets the text.
	SetAttribute(node HostNode, name, value string)

	// RemoveAttribute resets a plain attribute to its empty value.
	RemoveAttribute(node HostNode, name string)

	// AddEventListener registers l for the named host event.
	AddEventListener(node HostNode, event string, l *domain.Listener)

	// RemoveEventListener detaches a previously registered listener.
	RemoveEventListener(node HostNode, event string, l *domain.Listener)

	// AppendChild appends child at the end of parent's children.
	AppendChild(parent, child HostNode)

	// RemoveChild removes child from parent.
	RemoveChild(parent, child HostNode)
}

// Inserter is implemented by hosts that can insert a child before an existing one.
// When the host supports it, the commit phase puts a node created for a changed
// position back in front of the retained nodes that follow it, instead of appending.
type Inserter interface {
	InsertBefore(parent, child, before HostNode)
}

// InspectableHost is implemented by hosts that can report their tree back.
// It is what the host contract suite and snapshotting rely on.
type InspectableHost interface {
	Host

	// Children returns the current children of node, in order.
	Children(node HostNode) []HostNode

	// Snapshot returns a detached copy of the subtree rooted at node.
	Snapshot(node HostNode) domain.Snapshot

	// Dispatch delivers an event to node's listeners and returns how many ran.
	Dispatch(node HostNode, e domain.Event) int
}
