// Package middleware provides HTTP middleware for workers: Prometheus
// metrics, OpenTelemetry tracing, and request logging.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "veldt").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
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

// WithBuckets sets the histogram buckets.
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
		Namespace: "veldt",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for a worker.
type metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	serverFnTotal    *prometheus.CounterVec
	serverFnDuration *prometheus.HistogramVec
	streamFragments  prometheus.Counter
	assetHits        *prometheus.CounterVec
}

var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of HTTP requests handled",
			ConstLabels: config.ConstLabels,
		}, []string{"path", "method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Request handling duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"path", "method"}),

		serverFnTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "server_fn_calls_total",
			Help:        "Total number of server function calls",
			ConstLabels: config.ConstLabels,
		}, []string{"name", "status"}),

		serverFnDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "server_fn_duration_seconds",
			Help:        "Server function execution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"name"}),

		streamFragments: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "stream_fragments_total",
			Help:        "Total number of streamed suspense fragments sent",
			ConstLabels: config.ConstLabels,
		}),

		assetHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "asset_requests_total",
			Help:        "Total number of static asset requests",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),
	}
}

// Prometheus creates middleware that records request counts and
// durations. Paths are labeled with the chi route pattern, not the
// raw URL, to keep label cardinality bounded.
//
// Expose the scrape endpoint separately:
//
//	r.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) func(http.Handler) http.Handler {
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

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			path := routePattern(r)
			m.requestDuration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
			m.requestsTotal.WithLabelValues(path, r.Method, statusLabel(sw.status)).Inc()
		})
	}
}

// routePattern returns the chi route pattern for the request, falling
// back to the raw path when the request did not match a route.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	if r.URL.Path == "" {
		return "/"
	}
	return r.URL.Path
}

func statusLabel(code int) string {
	if code == 0 {
		code = http.StatusOK
	}
	switch {
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// statusWriter captures the response status for labeling.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(p)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// currentMetrics returns the shared collectors, or nil before
// Prometheus() has initialized them.
func currentMetrics() *metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	return globalMetrics
}

// RecordServerFn records one server function call. The dispatch
// handler calls this after the function returns.
func RecordServerFn(name string, err error, duration time.Duration) {
	m := currentMetrics()
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.serverFnTotal.WithLabelValues(name, status).Inc()
	m.serverFnDuration.WithLabelValues(name).Observe(duration.Seconds())
}

// RecordStreamFragment records a streamed suspense fragment going out.
func RecordStreamFragment() {
	if m := currentMetrics(); m != nil {
		m.streamFragments.Inc()
	}
}

// RecordAssetRequest records a static asset request by status class.
func RecordAssetRequest(status int) {
	if m := currentMetrics(); m != nil {
		m.assetHits.WithLabelValues(statusLabel(status)).Inc()
	}
}
