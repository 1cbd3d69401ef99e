package api

import (
	"net/http"
	"time"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps Dependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status     string    `json:"status"`
	Reconciled bool      `json:"reconciled"`
	LastRun    time.Time `json:"last_run,omitempty"`
}

// HandleHealth handles GET /healthz requests. The service is healthy as
// soon as it is serving; Reconciled reports whether a bundle exists yet.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	lastRun := h.deps.LastRun(r.Context())
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Reconciled: !lastRun.IsZero(),
		LastRun:    lastRun,
	})
}
