package introspect

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthHandler serves liveness and readiness endpoints: liveness always
// reports ok once the process is up, readiness additionally reports the
// active-connection gauge.
type HealthHandler struct {
	metrics *Metrics
}

// NewHealthHandler returns a HealthHandler backed by metrics.
func NewHealthHandler(metrics *Metrics) *HealthHandler {
	return &HealthHandler{metrics: metrics}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/ready", "/readyz":
		h.readiness(w)
	default:
		h.liveness(w)
	}
}

func (h *HealthHandler) liveness(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(startTime).String(),
	})
}

func (h *HealthHandler) readiness(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":             "ready",
		"uptime":             time.Since(startTime).String(),
		"connections_active": h.metrics.connectionsActive.Load(),
		"connections_total":  h.metrics.connectionsTotal.Load(),
		"requests_total":     h.metrics.requestsTotal.Load(),
	})
}
