package rest

import (
	"net/http"
	"time"

	"github.com/bibbank/loan-decision/internal/domain/port"
)

// HealthHandler provides liveness and readiness endpoints. Readiness
// follows model availability.
type HealthHandler struct {
	provider  port.ModelProvider
	service   string
	startTime time.Time
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(service string, provider port.ModelProvider) *HealthHandler {
	return &HealthHandler{
		provider:  provider,
		service:   service,
		startTime: time.Now(),
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Checks  map[string]string `json:"checks"`
	Status  string            `json:"status"`
	Service string            `json:"service"`
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.service,
		Uptime:  time.Since(h.startTime).Truncate(time.Second).String(),
	})
}

// Readyz reports 503 while the service runs without a model.
func (h *HealthHandler) Readyz(w http.ResponseWriter, _ *http.Request) {
	resp := ReadinessResponse{
		Status:  "ready",
		Service: h.service,
		Checks:  map[string]string{"model": "ok"},
	}
	code := http.StatusOK
	if _, err := h.provider.Classifier(); err != nil {
		resp.Status = "degraded"
		resp.Checks["model"] = "unavailable"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}
