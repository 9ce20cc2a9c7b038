package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func freshMetrics(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()

	globalMetricsMu.Lock()
	globalMetrics = initMetrics(MetricsConfig{
		Namespace: "veldt",
		Buckets:   prometheus.DefBuckets,
		Registry:  reg,
	})
	globalMetricsMu.Unlock()

	t.Cleanup(func() {
		globalMetricsMu.Lock()
		globalMetrics = nil
		globalMetricsMu.Unlock()
	})
	return reg
}

func TestPrometheusMiddleware(t *testing.T) {
	reg := freshMetrics(t)
	m := globalMetrics

	r := chi.NewRouter()
	// Prometheus() reuses the already-initialized collectors.
	r.Use(Prometheus())
	r.Get("/blog/{slug}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/blog/first-post", nil))

	// The route pattern, not the concrete path, labels the counter.
	got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/blog/{slug}", "GET", "2xx"))
	if got != 1 {
		t.Errorf("requests_total = %v, want 1", got)
	}

	count, err := testutil.GatherAndCount(reg, "veldt_request_duration_seconds")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count == 0 {
		t.Error("request duration not recorded")
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "2xx"},
		{200, "2xx"},
		{302, "3xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		if got := statusLabel(tt.code); got != tt.want {
			t.Errorf("statusLabel(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestRoutePatternFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/raw/path", nil)
	if got := routePattern(req); got != "/raw/path" {
		t.Errorf("routePattern = %q, want /raw/path", got)
	}
}

func TestRecordServerFn(t *testing.T) {
	freshMetrics(t)

	RecordServerFn("get_post", nil, 5*time.Millisecond)
	RecordServerFn("get_post", http.ErrBodyNotAllowed, time.Millisecond)

	success := testutil.ToFloat64(globalMetrics.serverFnTotal.WithLabelValues("get_post", "success"))
	failure := testutil.ToFloat64(globalMetrics.serverFnTotal.WithLabelValues("get_post", "error"))
	if success != 1 || failure != 1 {
		t.Errorf("server_fn_calls_total success=%v error=%v, want 1/1", success, failure)
	}
}

func TestRecordStreamFragment(t *testing.T) {
	freshMetrics(t)

	RecordStreamFragment()
	RecordStreamFragment()

	if got := testutil.ToFloat64(globalMetrics.streamFragments); got != 2 {
		t.Errorf("stream_fragments_total = %v, want 2", got)
	}
}

func TestRecordAssetRequest(t *testing.T) {
	freshMetrics(t)

	RecordAssetRequest(http.StatusOK)
	RecordAssetRequest(http.StatusNotFound)

	hits := testutil.ToFloat64(globalMetrics.assetHits.WithLabelValues("2xx"))
	misses := testutil.ToFloat64(globalMetrics.assetHits.WithLabelValues("4xx"))
	if hits != 1 || misses != 1 {
		t.Errorf("asset_requests_total 2xx=%v 4xx=%v, want 1/1", hits, misses)
	}
}

func TestRecordersDuringInit(t *testing.T) {
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()
	t.Cleanup(func() {
		globalMetricsMu.Lock()
		globalMetrics = nil
		globalMetricsMu.Unlock()
	})

	// Recorders and first-time initialization may run concurrently;
	// the race detector flags an unguarded singleton read here.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			RecordServerFn("x", nil, time.Millisecond)
			RecordStreamFragment()
			RecordAssetRequest(http.StatusOK)
		}
	}()
	Prometheus(WithRegistry(prometheus.NewRegistry()))
	<-done
}

func TestRecordersNoopWithoutInit(t *testing.T) {
	globalMetricsMu.Lock()
	saved := globalMetrics
	globalMetrics = nil
	globalMetricsMu.Unlock()
	defer func() {
		globalMetricsMu.Lock()
		globalMetrics = saved
		globalMetricsMu.Unlock()
	}()

	// Must not panic when metrics were never initialized.
	RecordServerFn("x", nil, time.Millisecond)
	RecordStreamFragment()
	RecordAssetRequest(http.StatusOK)
}
