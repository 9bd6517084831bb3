package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/parkgwanhyeong0701-web/polar-plant-dashboard/pkg/contracts"
)

// HealthHandler serves liveness and readiness endpoints.
type HealthHandler struct {
	service HealthService
	logger  *slog.Logger
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(service HealthService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetHealth)
	r.Get("/ready", h.GetReady)
	r.Get("/version", h.GetVersion)

	return r
}

// GetHealth handles GET /api/health
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := h.service.Check(r.Context())

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	render.Status(r, code)
	render.JSON(w, r, status)
}

// GetReady handles GET /api/health/ready. Ready means the data
// directory exists; an empty directory is still ready.
func (h *HealthHandler) GetReady(w http.ResponseWriter, r *http.Request) {
	status := h.service.Check(r.Context())

	if !status.DataDirExists {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]string{
			"status": "not_ready",
			"reason": "data directory not accessible",
		})
		return
	}

	render.JSON(w, r, map[string]string{"status": "ready"})
}

// GetVersion handles GET /api/health/version
func (h *HealthHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"version": contracts.Version,
		"name":    contracts.AppName,
	})
}
