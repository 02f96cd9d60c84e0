package admin

import (
	"net/http"
	"strconv"

	"github.com/capstonehub/backend/internal/handlers"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/pkg/httputil"
)

func parseUserFilter(r *http.Request) (models.UserFilter, httputil.Page) {
	page := httputil.ParsePage(r)
	filter := models.UserFilter{
		Search: httputil.GetQueryParam(r, "search"),
		Limit:  page.Limit,
		Offset: page.Offset(),
	}
	if raw := httputil.GetQueryParam(r, "is_active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}
	return filter, page
}

// ListStudents godoc
// @Summary List students
// @Tags Admin Users
// @Param search query string false "Name, email or student number"
// @Param is_active query bool false "Filter by activation"
// @Router /admin/students [get]
// @Security ApiKeyAuth
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	filter, page := parseUserFilter(r)
	students, total, err := h.accounts.ListStudents(r.Context(), handlers.Actor(r), filter)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithList(w, students, total, page)
}

// ListClients godoc
// @Summary List clients
// @Tags Admin Users
// @Router /admin/clients [get]
// @Security ApiKeyAuth
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	filter, page := parseUserFilter(r)
	clients, total, err := h.accounts.ListClients(r.Context(), handlers.Actor(r), filter)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithList(w, clients, total, page)
}

// SetStudentStatus godoc
// @Summary Activate or deactivate a student
// @Description Deactivation revokes every session of the student.
// @Tags Admin Users
// @Router /admin/students/{id}/status [patch]
// @Security ApiKeyAuth
func (h *Handler) SetStudentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	active, err := handlers.ParseStatusUpdate(w, r)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	student, err := h.accounts.SetStudentActive(r.Context(), handlers.Actor(r), id, active)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, student)
}

// SetClientStatus godoc
// @Summary Activate or deactivate a client
// @Tags Admin Users
// @Router /admin/clients/{id}/status [patch]
// @Security ApiKeyAuth
func (h *Handler) SetClientStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	active, err := handlers.ParseStatusUpdate(w, r)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	client, err := h.accounts.SetClientActive(r.Context(), handlers.Actor(r), id, active)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, client)
}
