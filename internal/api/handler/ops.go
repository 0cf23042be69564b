package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sakaymap/sakaymap/internal/api/models"
	"github.com/sakaymap/sakaymap/internal/api/response"
	"github.com/sakaymap/sakaymap/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
	readyFunc func(ctx context.Context) error
}

// NewOpsHandler creates a new OpsHandler. registry and readyFunc may be nil.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry, readyFunc func(ctx context.Context) error) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
		readyFunc: readyFunc,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now(),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Fails when
// a required dependency is unreachable.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now(),
	}

	if h.readyFunc != nil {
		if err := h.readyFunc(r.Context()); err != nil {
			health.Status = models.HealthStatusFail
			health.Details = map[string]interface{}{"error": err.Error()}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - upstream provider status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:    models.HealthStatusOK,
		Time:      time.Now(),
		Providers: []models.ProviderStatus{},
	}

	if h.registry != nil {
		for _, ph := range h.registry.GetAllHealth() {
			ps := models.ProviderStatus{
				Provider:      ph.Name,
				Status:        models.HealthStatusOK,
				CircuitState:  ph.CircuitState.String(),
				LastSuccessAt: ph.LastSuccessAt,
				LastFailureAt: ph.LastFailureAt,
			}
			switch {
			case ph.IsUnhealthy():
				ps.Status = models.HealthStatusFail
				status.Status = models.HealthStatusDegraded
			case ph.IsDegraded():
				ps.Status = models.HealthStatusDegraded
				status.Status = models.HealthStatusDegraded
			}
			status.Providers = append(status.Providers, ps)
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}
