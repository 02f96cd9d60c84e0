package admin

import (
	"fmt"
	"net/http"

	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/pkg/httputil"
	"github.com/google/uuid"
)

// Audit log page bounds.
const (
	defaultAuditLimit = 100
	maxAuditLimit     = 500
)

// ListAuditLogs returns audit rows, newest first. Filters: entity_type,
// entity_id, actor_id, action, limit, offset.
func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	filter := models.AuditFilter{
		EntityType: httputil.GetQueryParam(r, "entity_type"),
		EntityID:   httputil.GetQueryParam(r, "entity_id"),
		Action:     httputil.GetQueryParam(r, "action"),
		Limit:      httputil.GetIntQueryParam(r, "limit", defaultAuditLimit),
		Offset:     httputil.GetIntQueryParam(r, "offset", 0),
	}
	if filter.Limit < 1 || filter.Limit > maxAuditLimit {
		filter.Limit = defaultAuditLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if raw := httputil.GetQueryParam(r, "actor_id"); raw != "" {
		actorID, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithAppError(w, fmt.Errorf("invalid actor_id: %w", models.ErrInvalidInput))
			return
		}
		filter.ActorID = &actorID
	}

	entries, err := h.activity.AuditLogs(r.Context(), filter)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	if entries == nil {
		entries = []models.AuditLog{}
	}
	httputil.RespondWithData(w, http.StatusOK, entries)
}

// ListErrorLogs pages through recorded server errors, newest first.
func (h *Handler) ListErrorLogs(w http.ResponseWriter, r *http.Request) {
	page := httputil.ParsePage(r)
	entries, total, err := h.activity.ErrorLogs(r.Context(), page.Limit, page.Offset())
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	if entries == nil {
		entries = []models.ErrorLog{}
	}
	httputil.RespondWithList(w, entries, total, page)
}

// GetAnalytics summarizes usage events over ?days=N (default 30).
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.activity.Summary(r.Context(), httputil.GetIntQueryParam(r, "days", 30))
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, summary)
}
