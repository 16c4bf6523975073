package domain

import "sort"

// AttrChange is a plain attribute to set on a retained host node.
type AttrChange struct {
	Name  string
	Value string
}

// HandlerChange is a listener to attach or detach, keyed by host event name.
type HandlerChange struct {
	Event    string
	Listener *Listener
}

// PropsDiff lists the host operations that turn a node rendered from one
// property bag into a node rendered from another. Children are never part of it.
type PropsDiff struct {
	RemovedHandlers []HandlerChange
	RemovedAttrs    []string
	SetAttrs        []AttrChange
	AddedHandlers   []HandlerChange
}

// DiffProps calculates the difference between the previous and the next bag
// of the same fiber. Output slices are sorted by name so the resulting host
// operations are deterministic.
func DiffProps(prev, next Props) PropsDiff {
	var d PropsDiff

	// 1. Handlers that disappeared or changed identity
	for _, name := range sortedHandlerNames(prev.Handlers) {
		old := prev.Handlers[name]
		if cur, ok := next.Handlers[name]; !ok || cur != old {
			d.RemovedHandlers = append(d.RemovedHandlers, HandlerChange{Event: EventName(name), Listener: old})
		}
	}

	prevAttrs := prev.Attributes()
	nextAttrs := next.Attributes()

	// 2. Attributes that disappeared are reset
	for _, name := range sortedKeys(prevAttrs) {
		if _, ok := nextAttrs[name]; !ok {
			d.RemovedAttrs = append(d.RemovedAttrs, name)
		}
	}

	// 3. Attributes that are new or changed
	for _, name := range sortedKeys(nextAttrs) {
		if old, ok := prevAttrs[name]; !ok || old != nextAttrs[name] {
			d.SetAttrs = append(d.SetAttrs, AttrChange{Name: name, Value: nextAttrs[name]})
		}
	}

	// 4. Handlers that are new or changed
	for _, name := range sortedHandlerNames(next.Handlers) {
		cur := next.Handlers[name]
		if old, ok := prev.Handlers[name]; !ok || old != cur {
			d.AddedHandlers = append(d.AddedHandlers, HandlerChange{Event: EventName(name), Listener: cur})
		}
	}

	return d
}

// IsEmpty checks if the diff contains any host operation.
func (d PropsDiff) IsEmpty() bool {
	return len(d.RemovedHandlers) == 0 &&
		len(d.RemovedAttrs) == 0 &&
		len(d.SetAttrs) == 0 &&
		len(d.AddedHandlers) == 0
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedHandlerNames skips nil listeners and names without the handler prefix.
func sortedHandlerNames(m map[string]*Listener) []string {
	keys := make([]string, 0, len(m))
	for k, l := range m {
		if l != nil && IsHandler(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
