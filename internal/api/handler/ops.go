// Package handler provides HTTP handlers for the Tripfolio API.
package handler

import (
	"net/http"
	"time"

	"github.com/tripfolio/tripfolio/internal/api/models"
	"github.com/tripfolio/tripfolio/internal/api/response"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	// TODO: probe the database pool here once readiness gates the rollout
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   now,
		Subsystems: []models.SubsystemStatus{
			{Name: "postgres", Status: models.HealthStatusOK},
			{Name: "pubsub", Status: models.HealthStatusOK},
		},
		Providers: []models.ProviderStatus{
			{Provider: "exchangerate-host", Status: models.HealthStatusOK, LastSuccessAt: &now},
		},
	}
	response.JSON(w, r, http.StatusOK, status)
}
