package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	logger  *slog.Logger
	started time.Time
	version string
	days    func() int
}

// NewHealthHandler creates a health handler. days reports the size of the
// loaded series so readiness can reflect whether data is present.
func NewHealthHandler(logger *slog.Logger, version string, days func() int) *HealthHandler {
	return &HealthHandler{
		logger:  logger.With(slog.String("component", "health_handler")),
		started: time.Now(),
		version: version,
		days:    days,
	}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetHealth)
	return r
}

// GetHealth handles GET /api/healthz
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	days := 0
	if h.days != nil {
		days = h.days()
	}

	status := "healthy"
	code := http.StatusOK
	if days == 0 {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	render.Status(r, code)
	render.JSON(w, r, map[string]interface{}{
		"status":      status,
		"version":     h.version,
		"uptime":      time.Since(h.started).Round(time.Second).String(),
		"loaded_days": days,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}
