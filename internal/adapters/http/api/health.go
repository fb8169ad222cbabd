package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/tripboard/pkg/metrics"
)

// HealthHandler handles health and metrics requests.
type HealthHandler struct {
	deps interface{ DemoMode() bool }
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps interface{ DemoMode() bool }) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status string `json:"status"`
	Demo   bool   `json:"demo"`
}

// HandleHealth handles GET /healthz.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Demo: h.deps.DemoMode()})
}

// MetricsHandler serves the custom Prometheus registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
