package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// healthResponse is the GET /api/health payload.
type healthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	RecordCount int    `json:"record_count"`
	Uptime      string `json:"uptime"`
}

// HealthHandler serves liveness checks.
type HealthHandler struct {
	service AnalyticsServiceInterface
	version string
	started time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(service AnalyticsServiceInterface, version string) *HealthHandler {
	return &HealthHandler{
		service: service,
		version: version,
		started: time.Now(),
	}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetHealth)
	return r
}

// GetHealth handles GET /api/health.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, healthResponse{
		Status:      "healthy",
		Version:     h.version,
		RecordCount: h.service.RecordCount(),
		Uptime:      time.Since(h.started).Round(time.Second).String(),
	})
}
