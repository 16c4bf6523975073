package cli

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/reactless"
	httpAdapter "github.com/aretw0/reactless/pkg/adapters/http"
	"github.com/aretw0/reactless/pkg/adapters/memory"
	"github.com/aretw0/reactless/pkg/adapters/redis"
	"github.com/aretw0/reactless/pkg/observability"
	"github.com/aretw0/reactless/pkg/persistence/middleware"
	"github.com/aretw0/reactless/pkg/ports"
	"github.com/aretw0/reactless/pkg/session"
)

const shutdownTimeout = 5 * time.Second

// RunServe starts the HTTP server and the engine loop, and blocks until ctx is
// done or one of them fails.
func RunServe(ctx context.Context, opts ServeOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	logger := CreateLogger(opts.GlobalOptions)

	store, closeStore, err := openStore(ctx, opts)
	if err != nil {
		logger.Error("Snapshot store unavailable", "redis", opts.RedisAddr, "err", err)
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	recorder := observability.NewRecorder()

	host := memory.NewHost()
	engineOpts := []reactless.Option{
		reactless.WithLogger(logger),
		reactless.WithFrame(opts.Frame, opts.FrameBudget),
		reactless.WithLifecycleHooks(recorder.Hooks()),
		reactless.WithLifecycleHooks(metrics.Hooks()),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, reactless.WithLifecycleHooks(observability.LogHooks(logger)))
	}
	engine, err := reactless.New(host, engineOpts...)
	if err != nil {
		return fmt.Errorf("error initializing engine: %w", err)
	}

	sessions := session.NewManager(store, host,
		func() ports.HostNode { return host.NewContainer("root") },
		session.WithLogger(logger),
	)
	handler := httpAdapter.NewHandler(httpAdapter.Config{
		Engine:    engine,
		Sessions:  sessions,
		Mutations: recorder,
		Handlers:  newHandlerResolver(logger),
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Version:   reactless.Version,
		Logger:    logger,
	})

	listener := opts.Listener
	if listener == nil {
		listener, err = net.Listen("tcp", ":"+opts.Port)
		if err != nil {
			return fmt.Errorf("failed to listen on port %s: %w", opts.Port, err)
		}
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return engine.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("Starting reactless server", "addr", listener.Addr().String())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		logger.Info("reactless server stopped gracefully")
		return nil
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// openStore returns the Redis store when an address is configured, the memory
// store otherwise, wrapped with the configured masking and encryption.
func openStore(ctx context.Context, opts ServeOptions) (ports.SnapshotStore, func(), error) {
	var mws []middleware.Middleware
	if len(opts.MaskAttrs) > 0 {
		mw, err := middleware.NewMaskingMiddleware(opts.MaskAttrs)
		if err != nil {
			return nil, nil, err
		}
		mws = append(mws, mw)
	}
	if opts.EncryptionKey != "" {
		key, err := hex.DecodeString(opts.EncryptionKey)
		if err != nil {
			return nil, nil, fmt.Errorf("encryption key must be hex encoded: %w", err)
		}
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, nil, err
		}
		mws = append(mws, mw)
	}

	if opts.RedisAddr == "" {
		return middleware.Chain(memory.NewStore(), mws...), func() {}, nil
	}

	var redisOpts []redis.Option
	if opts.SnapshotTTL > 0 {
		redisOpts = append(redisOpts, redis.WithTTL(opts.SnapshotTTL))
	}
	store := redis.New(opts.RedisAddr, "", opts.RedisDB, redisOpts...)
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", opts.RedisAddr, err)
	}
	return middleware.Chain(store, mws...), func() { _ = store.Close() }, nil
}
