package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/internal/validation"
	"github.com/google/uuid"
)

// GalleryService manages the public showcase of completed projects.
type GalleryService struct {
	gallery  GalleryStore
	projects ProjectStore
	activity *ActivityService
}

// NewGalleryService creates a new GalleryService.
func NewGalleryService(gallery GalleryStore, projects ProjectStore, activity *ActivityService) *GalleryService {
	return &GalleryService{gallery: gallery, projects: projects, activity: activity}
}

// List returns gallery items, featured first then by display order. Only
// admins see unpublished items.
func (s *GalleryService) List(ctx context.Context, actor *models.Actor) ([]models.GalleryItem, error) {
	items, err := s.gallery.List(ctx, !actor.IsAdmin())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.GalleryItem{}
	}
	return items, nil
}

// Get returns one item; unpublished items are hidden from non-admins.
func (s *GalleryService) Get(ctx context.Context, actor *models.Actor, id uuid.UUID) (*models.GalleryItem, error) {
	item, err := s.gallery.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.IsPublished && !actor.IsAdmin() {
		return nil, fmt.Errorf("gallery item %s: %w", id, models.ErrNotFound)
	}
	return item, nil
}

// Create adds a gallery item.
func (s *GalleryService) Create(ctx context.Context, actor *models.Actor, input *models.GalleryInput) (*models.GalleryItem, error) {
	if !actor.IsAdmin() {
		return nil, models.ErrForbidden
	}
	item := &models.GalleryItem{IsPublished: true}
	if err := s.apply(ctx, item, input); err != nil {
		return nil, err
	}
	if err := s.gallery.Create(ctx, item); err != nil {
		return nil, err
	}
	s.activity.Audit(ctx, actor, models.AuditGalleryCreated, models.EntityGallery, item.ID.String(), map[string]string{"title": item.Title})
	return item, nil
}

// Update replaces a gallery item's fields.
func (s *GalleryService) Update(ctx context.Context, actor *models.Actor, id uuid.UUID, input *models.GalleryInput) (*models.GalleryItem, error) {
	if !actor.IsAdmin() {
		return nil, models.ErrForbidden
	}
	item, err := s.gallery.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, item, input); err != nil {
		return nil, err
	}
	if err := s.gallery.Update(ctx, item); err != nil {
		return nil, err
	}
	s.activity.Audit(ctx, actor, models.AuditGalleryUpdated, models.EntityGallery, item.ID.String(), map[string]string{"title": item.Title})
	return item, nil
}

// Delete removes a gallery item.
func (s *GalleryService) Delete(ctx context.Context, actor *models.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return models.ErrForbidden
	}
	if err := s.gallery.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Audit(ctx, actor, models.AuditGalleryDeleted, models.EntityGallery, id.String(), nil)
	return nil
}

// Count returns the number of gallery items.
func (s *GalleryService) Count(ctx context.Context) (int, error) {
	return s.gallery.Count(ctx)
}

// apply validates input and copies it onto item. A linked project must be
// completed; its title and client name fill in blanks.
func (s *GalleryService) apply(ctx context.Context, item *models.GalleryItem, input *models.GalleryInput) error {
	if err := validation.ValidateStruct(input); err != nil {
		return err
	}

	title := strings.TrimSpace(input.Title)
	clientName := input.ClientName

	if input.ProjectID != nil {
		p, err := s.projects.GetByID(ctx, *input.ProjectID)
		if err != nil {
			return err
		}
		if p.Status != models.ProjectStatusCompleted {
			return fmt.Errorf("only completed projects can be showcased: %w", models.ErrConflict)
		}
		if title == "" {
			title = p.Title
		}
		if (clientName == nil || strings.TrimSpace(*clientName) == "") && p.ClientName != "" {
			name := p.ClientName
			clientName = &name
		}
	}
	if title == "" {
		return validation.NewFieldError("title", "Title is required")
	}

	item.ProjectID = input.ProjectID
	item.Title = title
	item.Description = strings.TrimSpace(input.Description)
	item.ClientName = clientName
	item.ImageURL = input.ImageURL
	item.AcademicYear = input.AcademicYear
	item.TeamMembers = input.TeamMembers
	if item.TeamMembers == nil {
		item.TeamMembers = []string{}
	}
	item.IsFeatured = input.IsFeatured
	item.DisplayOrder = input.DisplayOrder
	if input.IsPublished != nil {
		item.IsPublished = *input.IsPublished
	}
	return nil
}
