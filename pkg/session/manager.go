package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/reactless/internal/logging"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/ports"
)

// ErrNotActive is returned for sessions that have no container on this process.
var ErrNotActive = errors.New("session not active")

// Session is a render target: one host container and the ID it is stored under.
type Session struct {
	ID        string
	Container ports.HostNode
	// Name identifies the container in lifecycle events.
	Name string
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager owns the active sessions and serializes work on each of them.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store        ports.SnapshotStore
	host         ports.InspectableHost
	newContainer func() ports.HostNode

	mu     sync.Mutex            // guards locks and active
	locks  map[string]*lockEntry // Map of active locks
	active map[string]*Session

	newID  func() string
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithIDGenerator replaces the random UUID session IDs.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager creates a manager whose sessions render into containers made by
// newContainer and whose committed trees are persisted in store.
func NewManager(store ports.SnapshotStore, host ports.InspectableHost, newContainer func() ports.HostNode, opts ...Option) *Manager {
	m := &Manager{
		store:        store,
		host:         host,
		newContainer: newContainer,
		locks:        make(map[string]*lockEntry),
		active:       make(map[string]*Session),
		newID:        uuid.NewString,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Create opens a session with a fresh container and persists its empty tree.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	container := m.newContainer()
	s := &Session{ID: m.newID(), Container: container, Name: describe(container)}

	err := m.WithLock(ctx, s.ID, func(ctx context.Context) error {
		snap := m.host.Snapshot(container)
		if err := m.store.Save(ctx, s.ID, &snap); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		m.mu.Lock()
		m.active[s.ID] = s
		m.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("session created", "session_id", s.ID, "container", s.Name)
	return s, nil
}

// Get returns an active session.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.active[sessionID]
	return s, ok
}

// Update runs fn on an active session while holding its lock, then persists
// and returns the container's tree.
func (m *Manager) Update(ctx context.Context, sessionID string, fn func(context.Context, *Session) error) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, ok := m.Get(sessionID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotActive, sessionID)
		}
		if err := fn(ctx, s); err != nil {
			return err
		}
		snap = m.host.Snapshot(s.Container)
		if err := m.store.Save(ctx, sessionID, &snap); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	})
	return snap, err
}

// Load retrieves the last persisted tree of a session.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, sessionID)
		return err
	})
	return snap, err
}

// Delete closes the session and removes its tree from the store.
// It returns the closed session, or nil if it was not active here.
func (m *Manager) Delete(ctx context.Context, sessionID string) (*Session, error) {
	var closed *Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.mu.Lock()
		closed = m.active[sessionID]
		delete(m.active, sessionID)
		m.mu.Unlock()
		return m.store.Delete(ctx, sessionID)
	})
	return closed, err
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

func describe(container ports.HostNode) string {
	if s, ok := container.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", container)
}
