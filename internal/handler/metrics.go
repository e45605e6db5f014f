package handler

import (
	"fmt"
	"net/http"

	"github.com/addrbook/addrbook/internal/metrics"
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

	writeMetric(w, "addrbook_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "addrbook_users_updated_total %d\n", snap.UsersUpdated)
	writeMetric(w, "addrbook_users_deleted_total %d\n", snap.UsersDeleted)
	writeMetric(w, "addrbook_addresses_updated_total %d\n", snap.AddressesUpdated)

	writeMetric(w, "addrbook_replies_total{status=\"200\"} %d\n", snap.RepliesOK)
	writeMetric(w, "addrbook_replies_total{status=\"201\"} %d\n", snap.RepliesCreated)
	writeMetric(w, "addrbook_replies_total{status=\"400\"} %d\n", snap.RepliesBadRequest)
	writeMetric(w, "addrbook_replies_total{status=\"404\"} %d\n", snap.RepliesNotFound)
	writeMetric(w, "addrbook_replies_total{status=\"500\"} %d\n", snap.RepliesInternalError)
	writeMetric(w, "addrbook_replies_total{status=\"other\"} %d\n", snap.RepliesOther)

	writeMetric(w, "addrbook_store_duration_seconds_count %d\n", snap.StoreDurationCount)
	writeMetric(w, "addrbook_store_duration_seconds_sum %.6f\n", float64(snap.StoreDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
