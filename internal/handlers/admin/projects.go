package admin

import (
	"net/http"

	"github.com/capstonehub/backend/internal/handlers"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/capstonehub/backend/pkg/httputil"
)

// ApproveRequest is the optional body of the approve endpoint.
type ApproveRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// RejectRequest is the body of the reject endpoint.
type RejectRequest struct {
	Reason string  `json:"reason"`
	Notes  *string `json:"notes,omitempty"`
}

// GetDashboard godoc
// @Summary Dashboard counts
// @Tags Admin
// @Router /admin/dashboard [get]
// @Security ApiKeyAuth
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context(), handlers.Actor(r))
	if err != nil {
		debug.Error("Failed to build dashboard stats: %v", err)
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, stats)
}

// ListPending godoc
// @Summary Review queue
// @Description Pending projects, oldest submission first.
// @Tags Admin Projects
// @Router /admin/projects/pending [get]
// @Security ApiKeyAuth
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	page := httputil.ParsePage(r)
	projects, total, err := h.projects.Pending(r.Context(), handlers.Actor(r), page.Limit, page.Offset())
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithList(w, projects, total, page)
}

// ApproveProject godoc
// @Summary Approve a pending project
// @Tags Admin Projects
// @Param id path string true "Project ID (UUID)"
// @Failure 409 {object} httputil.ErrorResponse // INVALID_TRANSITION
// @Router /admin/projects/{id}/approve [post]
// @Security ApiKeyAuth
func (h *Handler) ApproveProject(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	var req ApproveRequest
	if err := handlers.DecodeOptionalJSON(w, r, &req); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	project, err := h.projects.Approve(r.Context(), handlers.Actor(r), id, req.Notes)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	debug.Info("Admin approved project %s", id)
	httputil.RespondWithData(w, http.StatusOK, project)
}

// RejectProject godoc
// @Summary Reject a pending project
// @Description A reason is required and is emailed to the client.
// @Tags Admin Projects
// @Param id path string true "Project ID (UUID)"
// @Router /admin/projects/{id}/reject [post]
// @Security ApiKeyAuth
func (h *Handler) RejectProject(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	var req RejectRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	project, err := h.projects.Reject(r.Context(), handlers.Actor(r), id, req.Reason, req.Notes)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	debug.Info("Admin rejected project %s", id)
	httputil.RespondWithData(w, http.StatusOK, project)
}
