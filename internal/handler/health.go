package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hublink/hublink/internal/models"
)

const version = "1.0.0"

// TokenSource is implemented by the credential resolver; the health check
// uses it to verify that a usable token can be produced.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	AuthMode string            `json:"auth_mode"`
	Checks   map[string]string `json:"checks"`
}

// HealthHandler handles GET /health with an optional credential check.
type HealthHandler struct {
	resolver TokenSource
	authMode string
}

func NewHealthHandler(resolver TokenSource, authMode string) *HealthHandler {
	return &HealthHandler{resolver: resolver, authMode: authMode}
}

// Health handles GET /health. A resolver that cannot produce a token marks
// the service degraded, since every tool call depends on it.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	overallStatus := "healthy"

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.resolver != nil {
		if _, err := h.resolver.Token(ctx); err != nil {
			checks["credentials"] = "unavailable: " + err.Error()
			overallStatus = "degraded"
		} else {
			checks["credentials"] = "ok"
		}
	}

	statusCode := http.StatusOK
	if overallStatus == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	models.WriteJSON(w, statusCode, HealthResponse{
		Status:   overallStatus,
		Version:  version,
		AuthMode: h.authMode,
		Checks:   checks,
	})
}
