package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/supportagent/supportagent/internal/models"
)

// Version is reported by GET /health and the version command.
const Version = "1.0.0"

// HealthChecker is implemented by services that can report connectivity
type HealthChecker interface {
	TestConnection(ctx context.Context) error
}

// Pinger is implemented by session stores that can report reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles GET /health with optional dependency checks
type HealthHandler struct {
	store Pinger
	es    HealthChecker
}

// es may be nil when document search is disabled.
func NewHealthHandler(store Pinger, es HealthChecker) *HealthHandler {
	return &HealthHandler{store: store, es: es}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	overallStatus := "healthy"

	// Use a short timeout for health checks so they don't block
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			checks["sessions"] = "unavailable: " + err.Error()
			overallStatus = "degraded"
		} else {
			checks["sessions"] = "ok"
		}
	}

	if h.es != nil {
		if err := h.es.TestConnection(ctx); err != nil {
			checks["elasticsearch"] = "unavailable: " + err.Error()
			overallStatus = "degraded"
		} else {
			checks["elasticsearch"] = "ok"
		}
	} else {
		checks["elasticsearch"] = "disabled"
	}

	statusCode := http.StatusOK
	if overallStatus == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	models.WriteJSON(w, statusCode, models.HealthResponse{
		Status:  overallStatus,
		Version: Version,
		Checks:  checks,
	})
}
