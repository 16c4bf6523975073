package domain

const (
	// TextElement is the reserved type tag of text elements.
	// Text elements carry their literal value in Props.NodeValue and never have children.
	TextElement = "TEXT_ELEMENT"

	// Fragment is the reserved type tag of structural wrappers.
	// Fragments group children without owning a host node.
	Fragment = "FRAGMENT"

	// DefaultTag is the host tag used when an element arrives without a type.
	DefaultTag = "div"

	// HandlerPrefix marks a property name as an event handler ("onClick").
	HandlerPrefix = "on"
)

// Plain attribute names understood by every host.
const (
	AttrID        = "id"
	AttrTitle     = "title"
	AttrClassName = "className"
	AttrNodeValue = "nodeValue"
)
