package vdom

import (
	"fmt"
	"strconv"

	"github.com/aretw0/reactless/pkg/domain"
)

// CreateElement builds an element from a tag, an optional property bag and child values.
// The caller's Props are copied; their Children field is replaced by the normalized children.
func CreateElement(tag string, props *domain.Props, children ...any) domain.Element {
	var p domain.Props
	if props != nil {
		p = *props
	}
	p.Children = Normalize(children...)
	return domain.Element{Type: tag, Props: p}
}

// Text builds a text element holding the string form of v.
func Text(v any) domain.Element {
	return domain.Element{
		Type:  domain.TextElement,
		Props: domain.Props{NodeValue: textOf(v)},
	}
}

// Fragment groups children without creating a host node for the group.
func Fragment(children ...any) domain.Element {
	return domain.Element{
		Type:  domain.Fragment,
		Props: domain.Props{Children: Normalize(children...)},
	}
}

// Normalize flattens child values into elements.
func Normalize(children ...any) []domain.Element {
	out := make([]domain.Element, 0, len(children))
	var visit func(any)
	visit = func(c any) {
		switch v := c.(type) {
		case domain.Element:
			out = append(out, v)
		case *domain.Element:
			if v != nil {
				out = append(out, *v)
			}
		case []domain.Element:
			out = append(out, v...)
		case []any:
			for _, item := range v {
				visit(item)
			}
		case string, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, fmt.Stringer:
			out = append(out, Text(v))
		}
	}
	for _, c := range children {
		visit(c)
	}
	return out
}

// On creates a named listener. Keep the returned pointer to re-render with the same handler.
func On(name string, fn func(domain.Event)) *domain.Listener {
	return &domain.Listener{Name: name, Fn: fn}
}

// Handlers adds handler properties to props and returns it.
// Arguments alternate between property name ("onClick") and *domain.Listener.
func Handlers(props *domain.Props, pairs ...any) *domain.Props {
	if props == nil {
		props = &domain.Props{}
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		l, lok := pairs[i+1].(*domain.Listener)
		if !ok || !lok || !domain.IsHandler(name) {
			continue
		}
		if props.Handlers == nil {
			props.Handlers = make(map[string]*domain.Listener)
		}
		props.Handlers[name] = l
	}
	return props
}

func textOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
