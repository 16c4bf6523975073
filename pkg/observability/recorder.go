package observability

import (
	"context"
	"sync"

	"github.com/aretw0/reactless/pkg/domain"
)

// Recorder collects the mutations applied to each container.
// Mutations of a commit become visible once the commit completes.
type Recorder struct {
	mu        sync.Mutex
	pending   map[string][]domain.Mutation
	committed map[string][]domain.Mutation
	commits   map[string]int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		pending:   make(map[string][]domain.Mutation),
		committed: make(map[string][]domain.Mutation),
		commits:   make(map[string]int),
	}
}

// Hooks returns lifecycle hooks that feed the recorder.
func (r *Recorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnMutation: func(_ context.Context, e *domain.MutationEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.pending[e.Container] = append(r.pending[e.Container], e.Mutation)
		},
		OnCommit: func(_ context.Context, e *domain.CommitEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.committed[e.Container] = append(r.committed[e.Container], r.pending[e.Container]...)
			delete(r.pending, e.Container)
			r.commits[e.Container]++
		},
	}
}

// Take returns the mutations committed to container since the last Take and forgets them.
func (r *Recorder) Take(container string) []domain.Mutation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.committed[container]
	delete(r.committed, container)
	return out
}

// Commits returns how many commits container has seen.
func (r *Recorder) Commits(container string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commits[container]
}

// Forget drops everything recorded for container.
func (r *Recorder) Forget(container string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, container)
	delete(r.committed, container)
	delete(r.commits, container)
}
