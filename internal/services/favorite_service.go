package services

import (
	"context"
	"fmt"

	"github.com/capstonehub/backend/internal/metrics"
	"github.com/capstonehub/backend/internal/models"
	"github.com/google/uuid"
)

// FavoriteService manages bookmarked projects and the per-student limit.
type FavoriteService struct {
	favorites FavoriteStore
	projects  ProjectStore
	settings  *SettingsService
	activity  *ActivityService
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(favorites FavoriteStore, projects ProjectStore, settings *SettingsService, activity *ActivityService) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		projects:  projects,
		settings:  settings,
		activity:  activity,
	}
}

// AddFavorite bookmarks a browsable project.
func (s *FavoriteService) AddFavorite(ctx context.Context, actor *models.Actor, projectID uuid.UUID) (*models.StudentFavorite, error) {
	if !actor.Is(models.RoleStudent) {
		return nil, models.ErrForbidden
	}
	p, err := browsableProject(ctx, s.projects, projectID)
	if err != nil {
		return nil, err
	}

	exists, err := s.favorites.Exists(ctx, actor.ID, projectID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("project %s is already a favorite: %w", projectID, models.ErrDuplicate)
	}

	settings, err := s.settings.AppSettings(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.favorites.CountByStudent(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if count >= settings.MaxStudentFavorites {
		metrics.RecordInterestOperation("favorite", "limit")
		return nil, fmt.Errorf("at most %d favorites are allowed: %w", settings.MaxStudentFavorites, models.ErrLimitReached)
	}

	fav := &models.StudentFavorite{StudentID: actor.ID, ProjectID: projectID}
	if err := s.favorites.Create(ctx, fav); err != nil {
		return nil, err
	}
	fav.ProjectTitle = p.Title
	fav.ProjectStatus = p.Status
	fav.ClientName = p.ClientName

	metrics.RecordInterestOperation("favorite", "success")
	s.activity.Track(ctx, actor, models.EventFavoriteAdded, &projectID, nil)
	return fav, nil
}

// RemoveFavorite deletes a bookmark; a missing bookmark is ErrNotFound.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, actor *models.Actor, projectID uuid.UUID) error {
	if !actor.Is(models.RoleStudent) {
		return models.ErrForbidden
	}
	if err := s.favorites.Delete(ctx, actor.ID, projectID); err != nil {
		return err
	}
	metrics.RecordInterestOperation("unfavorite", "success")
	return nil
}

// ToggleFavorite adds the project when absent and removes it when present.
// It reports whether the project is a favorite afterwards.
func (s *FavoriteService) ToggleFavorite(ctx context.Context, actor *models.Actor, projectID uuid.UUID) (bool, error) {
	if !actor.Is(models.RoleStudent) {
		return false, models.ErrForbidden
	}
	exists, err := s.favorites.Exists(ctx, actor.ID, projectID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, s.RemoveFavorite(ctx, actor, projectID)
	}
	if _, err := s.AddFavorite(ctx, actor, projectID); err != nil {
		return false, err
	}
	return true, nil
}

// ListFavorites returns the student's favorites, newest first.
func (s *FavoriteService) ListFavorites(ctx context.Context, actor *models.Actor) ([]models.StudentFavorite, error) {
	if !actor.Is(models.RoleStudent) {
		return nil, models.ErrForbidden
	}
	favorites, err := s.favorites.ListByStudent(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if favorites == nil {
		favorites = []models.StudentFavorite{}
	}
	return favorites, nil
}

// Count returns the number of favorites platform-wide.
func (s *FavoriteService) Count(ctx context.Context) (int, error) {
	return s.favorites.Count(ctx)
}
