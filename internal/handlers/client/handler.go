// Package client serves the client self-service endpoints under
// /api/clients/me.
package client

import (
	"context"
	"net/http"

	"github.com/capstonehub/backend/internal/handlers"
	"github.com/capstonehub/backend/internal/handlers/project"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/capstonehub/backend/pkg/httputil"
)

// AccountService is the profile part of services.AccountService.
type AccountService interface {
	ClientProfile(ctx context.Context, actor *models.Actor) (*models.Client, error)
	UpdateClientProfile(ctx context.Context, actor *models.Actor, upd *models.ClientProfileUpdate) (*models.Client, error)
}

// ProjectLister lists the caller's own projects.
type ProjectLister interface {
	ListForClient(ctx context.Context, actor *models.Actor, filter models.ProjectFilter) ([]models.Project, int, error)
}

// Handler serves /api/clients/me.
type Handler struct {
	accounts AccountService
	projects ProjectLister
}

// NewHandler creates a new client handler.
func NewHandler(accounts AccountService, projects ProjectLister) *Handler {
	return &Handler{accounts: accounts, projects: projects}
}

// GetProfile returns the caller's organization profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	client, err := h.accounts.ClientProfile(r.Context(), handlers.Actor(r))
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, client)
}

// UpdateProfile replaces the editable organization fields.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd models.ClientProfileUpdate
	if err := handlers.DecodeJSON(w, r, &upd); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	client, err := h.accounts.UpdateClientProfile(r.Context(), handlers.Actor(r), &upd)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	debug.Info("Client %s updated its profile", client.ID)
	httputil.RespondWithData(w, http.StatusOK, client)
}

// ListProjects returns every project the caller owns, in any status, with
// interest counts. It accepts the same filters as the public search.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	filter, page, err := project.ParseFilter(r)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	projects, total, err := h.projects.ListForClient(r.Context(), handlers.Actor(r), filter)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithList(w, projects, total, page)
}
