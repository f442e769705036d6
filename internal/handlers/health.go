package handlers

import (
	"net/http"
	"time"

	"loreweave-backend/internal/service/generation"
	"loreweave-backend/pkg/api"
)

// HealthHandler reports process liveness and generation-backend readiness.
type HealthHandler struct {
	client      *generation.Client
	environment string
	startedAt   time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(client *generation.Client, environment string) *HealthHandler {
	return &HealthHandler{
		client:      client,
		environment: environment,
		startedAt:   time.Now(),
	}
}

// Health handles GET /health. The endpoint always returns 200 as long as the
// process serves requests; generation backend state is reported, not gating,
// because the canvas API stays usable while the provider is down.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	generationStatus := "available"
	if !h.client.IsAvailable() {
		status = "degraded"
		generationStatus = "unavailable"
	}

	api.Success(w, http.StatusOK, api.HealthResponse{
		Status:      status,
		Environment: h.environment,
		Generation:  generationStatus,
		UptimeSecs:  int64(time.Since(h.startedAt).Seconds()),
	})
}
