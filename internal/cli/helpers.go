package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/reactless/internal/logging"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/registry"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// CreateLogger configures the application logger.
// Without --debug only warnings and errors are written, always to Stderr.
func CreateLogger(opts GlobalOptions) *slog.Logger {
	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}
	return logging.NewWithWriter(os.Stderr, level, opts.JSON)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// handlerResolver resolves every handler name. Names seen for the first time
// get a handler that logs the events it receives.
type handlerResolver struct {
	mu     sync.Mutex
	reg    *registry.Registry
	logger *slog.Logger
}

func newHandlerResolver(logger *slog.Logger) *handlerResolver {
	return &handlerResolver{reg: registry.NewRegistry(), logger: logger}
}

func (r *handlerResolver) Lookup(name string) (*domain.Listener, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.reg.Lookup(name); ok {
		return l, true
	}
	return r.reg.Register(name, func(e domain.Event) {
		r.logger.Info("Handler called", "handler", name, "event", e.Type)
	}), true
}
