package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Element is an immutable descriptor of one node to render.
// Elements are produced by the vdom builder (or decoded by the schema package)
// and consumed by the render phase. The engine never mutates them.
type Element struct {
	Type  string `json:"type" yaml:"type"`
	Props Props  `json:"props" yaml:"props"`
}

// Props is the property bag of an Element.
//
// Known plain attributes have dedicated fields; unknown plain attributes go in
// Attrs. Handlers are keyed by their full property name ("onClick"). Children is
// structural and never treated as an attribute.
type Props struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	ClassName string `json:"className,omitempty" yaml:"className,omitempty"`

	// NodeValue is only meaningful for TextElement.
	NodeValue string `json:"nodeValue,omitempty" yaml:"nodeValue,omitempty"`

	// Attrs holds forward-compatible plain attributes the engine does not know about.
	Attrs map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`

	Handlers map[string]*Listener `json:"-" yaml:"-"`

	Children []Element `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsText reports whether the element is a text element.
func (e Element) IsText() bool {
	return e.Type == TextElement
}

// Attributes returns the non-empty plain attributes of the bag, keyed by
// attribute name. Known fields win over same-named entries in Attrs.
func (p Props) Attributes() map[string]string {
	out := make(map[string]string, len(p.Attrs)+4)
	for k, v := range p.Attrs {
		if v != "" && !IsHandler(k) {
			out[k] = v
		}
	}
	if p.ID != "" {
		out[AttrID] = p.ID
	}
	if p.Title != "" {
		out[AttrTitle] = p.Title
	}
	if p.ClassName != "" {
		out[AttrClassName] = p.ClassName
	}
	if p.NodeValue != "" {
		out[AttrNodeValue] = p.NodeValue
	}
	return out
}

// IsHandler reports whether a property name denotes an event handler.
func IsHandler(name string) bool {
	if len(name) <= len(HandlerPrefix) || !strings.HasPrefix(name, HandlerPrefix) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name[len(HandlerPrefix):])
	return unicode.IsUpper(r)
}

// EventName maps a handler property name to the host event it listens to.
// EventName("onClick") == "click".
func EventName(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, HandlerPrefix))
}

// HandlerName is the inverse of EventName. HandlerName("click") == "onClick".
func HandlerName(event string) string {
	if event == "" {
		return HandlerPrefix
	}
	r, size := utf8.DecodeRuneInString(event)
	return HandlerPrefix + string(unicode.ToUpper(r)) + event[size:]
}

// Listener is an event handler registered through a handler property.
// Two handlers are the same handler only if they are the same *Listener.
type Listener struct {
	Name string
	Fn   func(Event)
}

// Handle invokes the listener. A nil listener or function is a no-op.
func (l *Listener) Handle(e Event) {
	if l == nil || l.Fn == nil {
		return
	}
	l.Fn(e)
}

// Event is delivered to listeners by the host.
type Event struct {
	Type   string
	Target any
	Data   map[string]any
}
