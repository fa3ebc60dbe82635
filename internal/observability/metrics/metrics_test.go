package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/v1/documents/F-1":         "/v1/documents/{document_id}",
		"/v1/documents/F-1/content": "/v1/documents/{document_id}/content",
		"/v1/documents/F-1/storno":  "/v1/documents/{document_id}/storno",
		"/v1/documents":             "/v1/documents",
		"/healthz":                  "/healthz",
	}
	for in, want := range cases {
		if got := normalizePath(in); got != want {
			t.Fatalf("normalizePath(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestConnectorMetricsCountCallsAndIdentities(t *testing.T) {
	m := NewHTTPServerMetrics("api")

	m.ObserveIdentity("CreateDocument", "reauthorize")
	m.ObserveIdentity("CreateDocument", "")
	m.ObserveECMCall("CreateDocument", "success", 20*time.Millisecond)
	m.ObserveECMCall("CreateDocument", "success", 30*time.Millisecond)

	if got := testutil.ToFloat64(m.identityResolutions.WithLabelValues("api", "CreateDocument", "reauthorize")); got != 1 {
		t.Fatalf("expected 1 reauthorize resolution, got %v", got)
	}
	if got := testutil.ToFloat64(m.identityResolutions.WithLabelValues("api", "CreateDocument", "unknown")); got != 1 {
		t.Fatalf("expected blank source counted as unknown, got %v", got)
	}
	if got := testutil.ToFloat64(m.ecmCallsTotal.WithLabelValues("api", "CreateDocument", "success")); got != 2 {
		t.Fatalf("expected 2 successful calls, got %v", got)
	}
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	handler := m.Middleware("api", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/documents/F-9", nil))

	if got := testutil.ToFloat64(m.requestTotal.WithLabelValues("api", http.MethodGet, "/v1/documents/{document_id}", "404")); got != 1 {
		t.Fatalf("expected one 404 request, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "dms_http_requests_total") {
		t.Fatalf("expected exposition to contain request counter")
	}
}

func TestWorkerMetricsFinishJob(t *testing.T) {
	m := NewWorkerMetrics("worker")
	m.StartJob()
	m.FinishJob("worker", "create", time.Millisecond, nil)
	m.StartJob()
	m.FinishJob("worker", "create", time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.jobTotal.WithLabelValues("worker", "create", "error")); got != 1 {
		t.Fatalf("expected one failed job, got %v", got)
	}
	if got := testutil.ToFloat64(m.jobInFlight); got != 0 {
		t.Fatalf("expected no jobs in flight, got %v", got)
	}
}
