// Package student serves the student self-service endpoints under
// /api/students/me.
package student

import (
	"context"
	"net/http"

	"github.com/capstonehub/backend/internal/handlers"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/pkg/httputil"
	"github.com/google/uuid"
)

// AccountService is the profile part of services.AccountService.
type AccountService interface {
	StudentProfile(ctx context.Context, actor *models.Actor) (*models.Student, error)
	UpdateStudentProfile(ctx context.Context, actor *models.Actor, upd *models.StudentProfileUpdate) (*models.Student, error)
}

// InterestService is the part of services.InterestService used here.
type InterestService interface {
	ExpressInterest(ctx context.Context, actor *models.Actor, projectID uuid.UUID, message *string) (*models.StudentInterest, error)
	WithdrawInterest(ctx context.Context, actor *models.Actor, projectID uuid.UUID) error
	ListInterests(ctx context.Context, actor *models.Actor, includeInactive bool) ([]models.StudentInterest, error)
}

// FavoriteService is the part of services.FavoriteService used here.
type FavoriteService interface {
	ToggleFavorite(ctx context.Context, actor *models.Actor, projectID uuid.UUID) (bool, error)
	RemoveFavorite(ctx context.Context, actor *models.Actor, projectID uuid.UUID) error
	ListFavorites(ctx context.Context, actor *models.Actor) ([]models.StudentFavorite, error)
}

// Handler serves /api/students/me.
type Handler struct {
	accounts  AccountService
	interests InterestService
	favorites FavoriteService
}

// NewHandler creates a new student handler.
func NewHandler(accounts AccountService, interests InterestService, favorites FavoriteService) *Handler {
	return &Handler{accounts: accounts, interests: interests, favorites: favorites}
}

// InterestRequest is the optional body of an interest submission.
type InterestRequest struct {
	Message *string `json:"message,omitempty"`
}

// FavoriteState reports whether a project is favorited after a toggle.
type FavoriteState struct {
	ProjectID uuid.UUID `json:"projectId"`
	Favorited bool      `json:"favorited"`
}

// GetProfile returns the caller's student profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	student, err := h.accounts.StudentProfile(r.Context(), handlers.Actor(r))
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, student)
}

// UpdateProfile replaces the editable profile fields. Email cannot change.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd models.StudentProfileUpdate
	if err := handlers.DecodeJSON(w, r, &upd); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	student, err := h.accounts.UpdateStudentProfile(r.Context(), handlers.Actor(r), &upd)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, student)
}

// ListInterests returns the caller's interests. Withdrawn ones are included
// with ?include_inactive=true.
func (h *Handler) ListInterests(w http.ResponseWriter, r *http.Request) {
	interests, err := h.interests.ListInterests(r.Context(), handlers.Actor(r), httputil.GetBoolQueryParam(r, "include_inactive"))
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, interests)
}

// ExpressInterest records interest in a project, reactivating a withdrawn
// one if present.
func (h *Handler) ExpressInterest(w http.ResponseWriter, r *http.Request) {
	projectID, err := handlers.PathUUID(r, "projectId")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	var req InterestRequest
	if err := handlers.DecodeOptionalJSON(w, r, &req); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	interest, err := h.interests.ExpressInterest(r.Context(), handlers.Actor(r), projectID, req.Message)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusCreated, interest)
}

// WithdrawInterest soft-deletes the caller's interest in a project.
func (h *Handler) WithdrawInterest(w http.ResponseWriter, r *http.Request) {
	projectID, err := handlers.PathUUID(r, "projectId")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	if err := h.interests.WithdrawInterest(r.Context(), handlers.Actor(r), projectID); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFavorites returns the caller's bookmarked projects.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.favorites.ListFavorites(r.Context(), handlers.Actor(r))
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, favorites)
}

// ToggleFavorite adds or removes a favorite and reports the new state.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	projectID, err := handlers.PathUUID(r, "projectId")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	favorited, err := h.favorites.ToggleFavorite(r.Context(), handlers.Actor(r), projectID)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, FavoriteState{ProjectID: projectID, Favorited: favorited})
}

// RemoveFavorite deletes a favorite.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	projectID, err := handlers.PathUUID(r, "projectId")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	if err := h.favorites.RemoveFavorite(r.Context(), handlers.Actor(r), projectID); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
