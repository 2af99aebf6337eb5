package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"collegedir/utils"
)

// HealthCheckResponse represents health check status
type HealthCheckResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime,omitempty"`
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store   Pinger
	version string
	started time.Time
}

func NewHealthHandler(store Pinger, version string) *HealthHandler {
	return &HealthHandler{store: store, version: version, started: time.Now()}
}

// HealthCheck pings the store directly, bypassing the cached health state.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Database:  "connected",
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	code := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("health check: database unreachable")
		response.Status = "unhealthy"
		response.Database = "disconnected"
		code = http.StatusServiceUnavailable
	}
	utils.RespondWithJSON(w, code, response)
}
