package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/reactless/internal/logging"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/ports"
)

const (
	// DefaultFrameInterval is the time between two grants.
	DefaultFrameInterval = 16 * time.Millisecond
	// DefaultFrameBudget is how long a grant may run.
	DefaultFrameBudget = 5 * time.Millisecond

	taskQueueSize = 64
)

// Loop is a single-goroutine scheduler. Every granted callback and every
// submitted task runs on the goroutine that called Run, one at a time.
type Loop struct {
	interval time.Duration
	budget   time.Duration
	logger   *slog.Logger

	tasks chan func()
	done  chan struct{}

	mu      sync.Mutex
	pending []ports.Callback
	started bool
}

var _ ports.Scheduler = (*Loop)(nil)

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithFrameInterval sets the time between grants.
func WithFrameInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		l.interval = d
	}
}

// WithFrameBudget sets how long each grant may run.
func WithFrameBudget(d time.Duration) LoopOption {
	return func(l *Loop) {
		l.budget = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// NewLoop creates a loop. It does nothing until Run is called.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		interval: DefaultFrameInterval,
		budget:   DefaultFrameBudget,
		logger:   logging.NewNop(),
		tasks:    make(chan func(), taskQueueSize),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RequestCallback schedules cb for the next frame.
func (l *Loop) RequestCallback(cb ports.Callback) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, cb)
}

// Submit queues fn to run on the loop goroutine.
// It returns domain.ErrEngineStopped once Run has returned.
func (l *Loop) Submit(ctx context.Context, fn func()) error {
	select {
	case <-l.done:
		return domain.ErrEngineStopped
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return domain.ErrEngineStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the loop goroutine and waits for its result.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	if err := l.Submit(ctx, func() { result <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-l.done:
		return domain.ErrEngineStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drives the loop until ctx is done. It must be called once.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return nil
	}
	l.started = true
	l.mu.Unlock()

	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Debug("scheduler loop started", "interval", l.interval, "budget", l.budget)
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("scheduler loop stopped")
			return nil
		case fn := <-l.tasks:
			fn()
		case <-ticker.C:
			l.grant()
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// grant runs every callback requested before this frame, sharing one budget.
// Callbacks requested while granting wait for the next frame.
func (l *Loop) grant() {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	deadline := frameDeadline{end: time.Now().Add(l.budget)}
	for _, cb := range batch {
		cb(deadline)
	}
}

type frameDeadline struct {
	end time.Time
}

func (d frameDeadline) TimeRemaining() time.Duration {
	if r := time.Until(d.end); r > 0 {
		return r
	}
	return 0
}
