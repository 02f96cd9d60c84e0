package project

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/capstonehub/backend/internal/handlers"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/capstonehub/backend/pkg/httputil"
	"github.com/google/uuid"
)

// ProjectService is the part of services.ProjectService the handlers use.
type ProjectService interface {
	Submit(ctx context.Context, actor *models.Actor, input *models.ProjectInput) (*models.Project, error)
	Get(ctx context.Context, actor *models.Actor, id uuid.UUID) (*models.Project, error)
	Search(ctx context.Context, actor *models.Actor, filter models.ProjectFilter) ([]models.Project, int, error)
	Update(ctx context.Context, actor *models.Actor, id uuid.UUID, input *models.ProjectInput) (*models.Project, error)
	Delete(ctx context.Context, actor *models.Actor, id uuid.UUID) error
	ChangeStatus(ctx context.Context, actor *models.Actor, id uuid.UUID, to models.ProjectStatus, reason string) (*models.Project, error)
	History(ctx context.Context, actor *models.Actor, id uuid.UUID) ([]models.AuditLog, error)
}

// InterestLister returns the students interested in a project.
type InterestLister interface {
	ProjectInterests(ctx context.Context, actor *models.Actor, projectID uuid.UUID) ([]models.InterestedStudent, error)
}

// Handler serves /api/projects.
type Handler struct {
	projects  ProjectService
	interests InterestLister
}

// NewHandler creates a new project handler.
func NewHandler(projects ProjectService, interests InterestLister) *Handler {
	return &Handler{projects: projects, interests: interests}
}

// StatusChangeRequest is the body of PATCH /api/projects/{id}/status.
type StatusChangeRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// ParseFilter reads the search query parameters shared by every project
// listing.
func ParseFilter(r *http.Request) (models.ProjectFilter, httputil.Page, error) {
	page := httputil.ParsePage(r)
	filter := models.ProjectFilter{
		Search:   httputil.GetQueryParam(r, "search"),
		Industry: httputil.GetQueryParam(r, "industry"),
		Skill:    httputil.GetQueryParam(r, "skill"),
		Sort:     httputil.GetQueryParamWithDefault(r, "sort", models.SortNewest),
		Limit:    page.Limit,
		Offset:   page.Offset(),
	}

	switch filter.Sort {
	case models.SortNewest, models.SortOldest, models.SortTitle, models.SortPopular:
	default:
		return filter, page, fmt.Errorf("unknown sort %q: %w", filter.Sort, models.ErrInvalidInput)
	}

	if raw := httputil.GetQueryParam(r, "client_id"); raw != "" {
		clientID, err := uuid.Parse(raw)
		if err != nil {
			return filter, page, fmt.Errorf("invalid client_id %q: %w", raw, models.ErrInvalidInput)
		}
		filter.ClientID = &clientID
	}

	if raw := httputil.GetQueryParam(r, "status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, err := models.ParseProjectStatus(strings.TrimSpace(part))
			if err != nil {
				return filter, page, err
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	return filter, page, nil
}

// ListProjects godoc
// @Summary Search projects
// @Description Students, clients and anonymous visitors only see approved and active projects.
// @Tags Projects
// @Produce json
// @Param search query string false "Free text over title, description and skills"
// @Param status query string false "Comma separated statuses"
// @Param industry query string false "Industry"
// @Param skill query string false "Required skill"
// @Param client_id query string false "Owning client"
// @Param sort query string false "newest, oldest, title or popular"
// @Router /projects [get]
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	filter, page, err := ParseFilter(r)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	projects, total, err := h.projects.Search(r.Context(), handlers.Actor(r), filter)
	if err != nil {
		debug.Error("Failed to search projects: %v", err)
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithList(w, projects, total, page)
}

// GetProject godoc
// @Summary Get a project
// @Tags Projects
// @Param id path string true "Project ID (UUID)"
// @Router /projects/{id} [get]
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	project, err := h.projects.Get(r.Context(), handlers.Actor(r), id)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, project)
}

// CreateProject godoc
// @Summary Submit a project for review
// @Tags Projects
// @Accept json
// @Success 201 {object} models.Project
// @Router /projects [post]
// @Security ApiKeyAuth
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var input models.ProjectInput
	if err := handlers.DecodeJSON(w, r, &input); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	project, err := h.projects.Submit(r.Context(), handlers.Actor(r), &input)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusCreated, project)
}

// UpdateProject godoc
// @Summary Edit a project
// @Description Owners may edit pending or rejected projects. Editing a rejected project resubmits it.
// @Tags Projects
// @Router /projects/{id} [put]
// @Security ApiKeyAuth
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	var input models.ProjectInput
	if err := handlers.DecodeJSON(w, r, &input); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	project, err := h.projects.Update(r.Context(), handlers.Actor(r), id, &input)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, project)
}

// DeleteProject godoc
// @Summary Delete a project
// @Tags Projects
// @Success 204
// @Router /projects/{id} [delete]
// @Security ApiKeyAuth
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	if err := h.projects.Delete(r.Context(), handlers.Actor(r), id); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChangeStatus godoc
// @Summary Move a project along its lifecycle
// @Tags Projects
// @Accept json
// @Failure 409 {object} httputil.ErrorResponse // INVALID_TRANSITION
// @Router /projects/{id}/status [patch]
// @Security ApiKeyAuth
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	var req StatusChangeRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	to, err := models.ParseProjectStatus(req.Status)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	project, err := h.projects.ChangeStatus(r.Context(), handlers.Actor(r), id, to, req.Reason)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, project)
}

// GetHistory returns the audit trail of a project.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	history, err := h.projects.History(r.Context(), handlers.Actor(r), id)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, history)
}

// GetInterests lists the students interested in a project. Only the owner
// and admins may see them.
func (h *Handler) GetInterests(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	students, err := h.interests.ProjectInterests(r.Context(), handlers.Actor(r), id)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, students)
}
