package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/mte/pkg/mte"
	"github.com/vango-dev/mte/pkg/vdom"
)

// Config configures the metrics.
type Config struct {
	// Namespace is the metrics namespace (default: "mte").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the metrics.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "mte",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records engine activity. It implements mte.Hooks.
type Metrics struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderErrors   *prometheus.CounterVec
	updatesTotal   *prometheus.CounterVec
	patchesTotal   *prometheus.CounterVec
	clients        prometheus.Gauge
}

var _ mte.Hooks = (*Metrics)(nil)

// NewMetrics registers the metrics with the configured registry. Creating
// two Metrics on the same registry panics, as with promauto.
func NewMetrics(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of template renders",
			ConstLabels: config.ConstLabels,
		}, []string{"template", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Template render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"template"}),

		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_errors_total",
			Help:        "Total number of failed renders by error type",
			ConstLabels: config.ConstLabels,
		}, []string{"error_type"}),

		updatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "updates_total",
			Help:        "Total number of incremental updates by expression kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		patchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_total",
			Help:        "Total number of output tree mutations by op",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		clients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "inspector_clients",
			Help:        "Number of connected inspector websocket clients",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// RenderDone implements mte.Hooks.
func (m *Metrics) RenderDone(template string, d time.Duration, err error) {
	m.renderDuration.WithLabelValues(template).Observe(d.Seconds())

	status := "success"
	if err != nil {
		status = "error"
		m.renderErrors.WithLabelValues(categorizeError(err)).Inc()
	}
	m.rendersTotal.WithLabelValues(template, status).Inc()
}

// Patched implements mte.Hooks.
func (m *Metrics) Patched(kind string) {
	m.updatesTotal.WithLabelValues(kind).Inc()
}

// ObservePatch counts one output mutation. Pass it to vdom.Tree.Observe.
func (m *Metrics) ObservePatch(p vdom.Patch) {
	m.patchesTotal.WithLabelValues(p.Op.String()).Inc()
}

// ClientConnected records an inspector client joining.
func (m *Metrics) ClientConnected() {
	m.clients.Inc()
}

// ClientDisconnected records an inspector client leaving.
func (m *Metrics) ClientDisconnected() {
	m.clients.Dec()
}

// categorizeError maps an error onto a low-cardinality label.
func categorizeError(err error) string {
	switch {
	case mte.IsBindingConfiguration(err):
		return "binding"
	case mte.IsContextResolution(err):
		return "context"
	case errors.Is(err, mte.ErrUnknownTemplate):
		return "unknown_template"
	default:
		return "internal"
	}
}
