// Package gallery serves the showcase of completed projects.
package gallery

import (
	"context"
	"net/http"

	"github.com/capstonehub/backend/internal/handlers"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/pkg/httputil"
	"github.com/google/uuid"
)

// GalleryService is the part of services.GalleryService the handlers use.
type GalleryService interface {
	List(ctx context.Context, actor *models.Actor) ([]models.GalleryItem, error)
	Get(ctx context.Context, actor *models.Actor, id uuid.UUID) (*models.GalleryItem, error)
	Create(ctx context.Context, actor *models.Actor, input *models.GalleryInput) (*models.GalleryItem, error)
	Update(ctx context.Context, actor *models.Actor, id uuid.UUID, input *models.GalleryInput) (*models.GalleryItem, error)
	Delete(ctx context.Context, actor *models.Actor, id uuid.UUID) error
}

// Handler serves /api/gallery.
type Handler struct {
	gallery GalleryService
}

// NewHandler creates a new gallery handler.
func NewHandler(gallery GalleryService) *Handler {
	return &Handler{gallery: gallery}
}

// ListItems returns published items, featured first. Admins also see
// unpublished ones.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.gallery.List(r.Context(), handlers.Actor(r))
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, items)
}

// GetItem returns one gallery item.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	item, err := h.gallery.Get(r.Context(), handlers.Actor(r), id)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, item)
}

// CreateItem adds an item. A linked project must be completed; its title
// and client name fill any blanks.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var input models.GalleryInput
	if err := handlers.DecodeJSON(w, r, &input); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	item, err := h.gallery.Create(r.Context(), handlers.Actor(r), &input)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusCreated, item)
}

// UpdateItem replaces an item's fields.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	var input models.GalleryInput
	if err := handlers.DecodeJSON(w, r, &input); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	item, err := h.gallery.Update(r.Context(), handlers.Actor(r), id, &input)
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	httputil.RespondWithData(w, http.StatusOK, item)
}

// DeleteItem removes an item.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, "id")
	if err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}

	if err := h.gallery.Delete(r.Context(), handlers.Actor(r), id); err != nil {
		httputil.RespondWithAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
