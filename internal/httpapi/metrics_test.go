package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TestMetricsMiddleware_EmitsRequestCounters verifies that wrapping a handler
// with MetricsMiddleware results in request metrics being exposed via the
// Prometheus /metrics handler.
func TestMetricsMiddleware_EmitsRequestCounters(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	MetricsMiddleware(next).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	// Scrape the default registry and ensure our metric name is present
	mrr := httptest.NewRecorder()
	mreq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	promhttp.Handler().ServeHTTP(mrr, mreq)
	if mrr.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", mrr.Code)
	}
	if !bytes.Contains(mrr.Body.Bytes(), []byte("ebmd_http_requests_total")) {
		t.Fatal("expected ebmd_http_requests_total in /metrics output")
	}
}
