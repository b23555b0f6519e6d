package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bigsby-exe/tAPI/internal/metrics"
)

func TestMetricsHandler_Metrics(t *testing.T) {
	recorder := metrics.NewInMemory()
	recorder.IncTodoCreated()
	recorder.IncTodoCreated()
	recorder.IncTodoDeleted()
	recorder.IncListCacheHit()
	recorder.IncListCacheMiss()
	recorder.ObserveListDuration(250 * time.Millisecond)

	h := NewMetricsHandler(recorder)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	h.Metrics(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain exposition format", ct)
	}

	body := rec.Body.String()
	expected := []string{
		"tapi_todos_created_total 2",
		"tapi_todos_updated_total 0",
		"tapi_todos_deleted_total 1",
		"tapi_list_cache_hits_total 1",
		"tapi_list_cache_misses_total 1",
		"tapi_list_duration_seconds_count 1",
		"tapi_list_duration_seconds_sum 0.250000",
	}
	for _, line := range expected {
		if !strings.Contains(body, line) {
			t.Errorf("metrics output missing %q\n%s", line, body)
		}
	}
}

func TestMetricsHandler_NilSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	h.Metrics(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}
