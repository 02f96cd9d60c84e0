// Package public serves unauthenticated endpoints: public settings and the
// health check.
package public

import (
	"context"
	"net/http"
	"time"

	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/capstonehub/backend/pkg/httputil"
)

// SettingsLister returns config settings.
type SettingsLister interface {
	List(ctx context.Context, publicOnly bool) ([]models.ConfigSetting, error)
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the public endpoints.
type Handler struct {
	settings SettingsLister
	db       Pinger
}

// NewHandler creates a new public handler.
func NewHandler(settings SettingsLister, db Pinger) *Handler {
	return &Handler{settings: settings, db: db}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Time     string `json:"time"`
}

// GetPublicSettings returns the settings flagged public, such as the
// interest limit shown to students.
func (h *Handler) GetPublicSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.List(r.Context(), true)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, settings)
}

// Health reports 200 when the database answers within two seconds and 503
// otherwise.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Database: "ok", Time: time.Now().UTC().Format(time.RFC3339)}
	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		debug.Error("Health check failed: %v", err)
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}
	httputil.RespondWithJSON(w, status, resp)
}
