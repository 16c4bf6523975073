package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/ports"
)

// Mask replaces the value of every masked attribute.
const Mask = "***"

type maskingMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewMaskingMiddleware creates a middleware that masks the values of attributes
// whose names match one of the patterns before snapshots reach the store.
func NewMaskingMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid mask pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &maskingMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *maskingMiddleware) Save(ctx context.Context, id string, snap *domain.Snapshot) error {
	// The caller's snapshot stays untouched.
	masked := m.mask(*snap)
	return m.next.Save(ctx, id, &masked)
}

func (m *maskingMiddleware) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, id)
}

func (m *maskingMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *maskingMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *maskingMiddleware) mask(s domain.Snapshot) domain.Snapshot {
	out := s
	if s.Attrs != nil {
		out.Attrs = make(map[string]string, len(s.Attrs))
		for k, v := range s.Attrs {
			if m.matches(k) {
				v = Mask
			}
			out.Attrs[k] = v
		}
	}
	if s.Children != nil {
		out.Children = make([]domain.Snapshot, len(s.Children))
		for i, c := range s.Children {
			out.Children[i] = m.mask(c)
		}
	}
	return out
}

func (m *maskingMiddleware) matches(name string) bool {
	for _, p := range m.patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}
