package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/reactless/pkg/domain"
)

// HandlerFunc is the body of a named event handler.
type HandlerFunc func(e domain.Event)

// Registry maps handler names to listeners.
// A name always resolves to the same *domain.Listener until it is registered
// again, so documents that reference a handler by name re-render without
// touching the host's listeners.
type Registry struct {
	mu        sync.RWMutex
	listeners map[string]*domain.Listener
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		listeners: make(map[string]*domain.Listener),
	}
}

// Register adds a handler to the registry and returns its listener.
// If a handler with the same name exists, it is replaced by a new listener.
func (r *Registry) Register(name string, fn HandlerFunc) *domain.Listener {
	l := &domain.Listener{Name: name, Fn: fn}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[name] = l
	return l
}

// Lookup returns the listener registered under name.
func (r *Registry) Lookup(name string) (*domain.Listener, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.listeners[name]
	return l, ok
}

// Resolve is Lookup with an error for unknown names.
func (r *Registry) Resolve(name string) (*domain.Listener, error) {
	if l, ok := r.Lookup(name); ok {
		return l, nil
	}
	return nil, fmt.Errorf("handler not found: %s", name)
}

// Names returns the registered handler names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.listeners))
	for name := range r.listeners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
