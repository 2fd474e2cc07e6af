package middleware

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/frametree/pkg/construct"
	"github.com/vango-dev/frametree/pkg/frame"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "frametree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for scope duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "frametree",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

type metrics struct {
	scopesTotal   *prometheus.CounterVec
	scopeDuration *prometheus.HistogramVec
	scopeErrors   *prometheus.CounterVec
	scopeFrames   prometheus.Histogram
	fragmentDepth prometheus.Histogram
}

// globalMetrics is created on the first call to Prometheus. Registering
// the same collectors twice on one registry panics, so later calls share it.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		scopesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "scopes_total",
			Help:        "Total number of construction scopes built",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "status"}),

		scopeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "scope_duration_seconds",
			Help:        "Construction scope duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"component"}),

		scopeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "scope_errors_total",
			Help:        "Total number of construction failures by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "kind"}),

		scopeFrames: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "scope_frames",
			Help:        "Number of frames produced per scope",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 4, 8), // 1 to 16384
		}),

		fragmentDepth: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fragment_depth",
			Help:        "Depth of fragment scopes when invoked",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.LinearBuckets(1, 1, 8),
		}),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for
// construction scopes.
//
// Example:
//
//	c := construct.New(reg,
//	    construct.WithMiddleware(
//	        middleware.Prometheus(
//	            middleware.WithNamespace("myapp"),
//	        ),
//	    ),
//	)
func Prometheus(opts ...MetricsOption) construct.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return func(next construct.BuildFunc) construct.BuildFunc {
		return func(ctx context.Context, s construct.Scope) (frame.Frames, error) {
			component := scopeLabel(s)
			if s.Depth > 0 {
				m.fragmentDepth.Observe(float64(s.Depth))
			}

			start := time.Now()
			fs, err := next(ctx, s)
			m.scopeDuration.WithLabelValues(component).Observe(time.Since(start).Seconds())

			status := "success"
			if err != nil {
				status = "error"
				m.scopeErrors.WithLabelValues(component, errorKind(err)).Inc()
			} else {
				m.scopeFrames.Observe(float64(len(fs)))
			}
			m.scopesTotal.WithLabelValues(component, status).Inc()

			return fs, err
		}
	}
}

// scopeLabel keeps label cardinality bounded by registered types.
func scopeLabel(s construct.Scope) string {
	if s.Name == "" {
		return "anonymous"
	}
	return s.Name
}

// errorKind returns a low-cardinality label for err.
func errorKind(err error) string {
	var cerr *construct.Error
	if errors.As(err, &cerr) {
		return cerr.Kind.String()
	}
	var perr *frame.ProtocolError
	if errors.As(err, &perr) {
		return "BuilderProtocolViolation"
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "internal"
}
