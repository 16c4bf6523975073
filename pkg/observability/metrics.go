package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/reactless/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "reactless"

// Metrics holds the Prometheus collectors fed by the engine's lifecycle hooks.
type Metrics struct {
	passes         *prometheus.CounterVec
	slices         prometheus.Counter
	units          prometheus.Counter
	commits        prometheus.Counter
	mutations      *prometheus.CounterVec
	commitDuration prometheus.Histogram
	sliceUnits     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// Collectors already registered by another Metrics are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_total",
			Help:      "Render passes by outcome (started, abandoned).",
		}, []string{"outcome"}),
		slices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slices_total",
			Help:      "Scheduler grants that performed render work.",
		}),
		units: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_total",
			Help:      "Units of render work performed.",
		}),
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Render passes committed to the host.",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Host mutations applied, by kind.",
		}, []string{"kind"}),
		commitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "commit_duration_seconds",
			Help:      "Duration of commit phases.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		sliceUnits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "slice_units",
			Help:      "Units of work performed per grant.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}

	if reg == nil {
		return m, nil
	}
	var err error
	if m.passes, err = register(reg, m.passes); err != nil {
		return nil, err
	}
	if m.slices, err = register(reg, m.slices); err != nil {
		return nil, err
	}
	if m.units, err = register(reg, m.units); err != nil {
		return nil, err
	}
	if m.commits, err = register(reg, m.commits); err != nil {
		return nil, err
	}
	if m.mutations, err = register(reg, m.mutations); err != nil {
		return nil, err
	}
	if m.commitDuration, err = register(reg, m.commitDuration); err != nil {
		return nil, err
	}
	if m.sliceUnits, err = register(reg, m.sliceUnits); err != nil {
		return nil, err
	}
	return m, nil
}

// register registers c, or returns the collector already registered under the same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, fmt.Errorf("failed to register metric: %w", err)
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRenderStart: func(context.Context, *domain.RenderEvent) {
			m.passes.WithLabelValues("started").Inc()
		},
		OnAbandon: func(context.Context, *domain.RenderEvent) {
			m.passes.WithLabelValues("abandoned").Inc()
		},
		OnSlice: func(_ context.Context, e *domain.SliceEvent) {
			m.slices.Inc()
			m.units.Add(float64(e.Units))
			m.sliceUnits.Observe(float64(e.Units))
		},
		OnCommit: func(_ context.Context, e *domain.CommitEvent) {
			m.commits.Inc()
			m.commitDuration.Observe(e.Duration.Seconds())
		},
		OnMutation: func(_ context.Context, e *domain.MutationEvent) {
			m.mutations.WithLabelValues(string(e.Kind)).Inc()
		},
	}
}
