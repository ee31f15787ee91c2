package api

import (
	"net/http"
	"time"
)

var startTime = time.Now()

func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(startTime).String(),
		"version":   "1.0.0",
		"backend":   h.client.BaseURL(),
	}

	// ?backend=1 also checks that the clock listing answers
	if r.URL.Query().Get("backend") != "" {
		if _, err := h.client.ListClocks(r.Context()); err != nil {
			health["status"] = "degraded"
			health["backend_error"] = err.Error()
		} else {
			health["backend_status"] = "ok"
		}
	}

	h.writeSuccess(w, http.StatusOK, health, "Service is healthy")
}
