package handler

import (
	"fmt"
	"net/http"

	"github.com/bigsby-exe/tAPI/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "tapi_todos_created_total %d\n", snap.TodosCreated)
	writeMetric(w, "tapi_todos_updated_total %d\n", snap.TodosUpdated)
	writeMetric(w, "tapi_todos_deleted_total %d\n", snap.TodosDeleted)

	writeMetric(w, "tapi_list_cache_hits_total %d\n", snap.ListCacheHits)
	writeMetric(w, "tapi_list_cache_misses_total %d\n", snap.ListCacheMisses)
	writeMetric(w, "tapi_list_duration_seconds_count %d\n", snap.ListDurationCount)
	writeMetric(w, "tapi_list_duration_seconds_sum %.6f\n", float64(snap.ListDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
