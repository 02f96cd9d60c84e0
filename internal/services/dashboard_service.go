package services

import (
	"context"

	"github.com/capstonehub/backend/internal/models"
)

// DashboardService assembles the admin dashboard counters.
type DashboardService struct {
	projects  *ProjectService
	accounts  *AccountService
	interests *InterestService
	favorites *FavoriteService
	gallery   *GalleryService
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(projects *ProjectService, accounts *AccountService, interests *InterestService, favorites *FavoriteService, gallery *GalleryService) *DashboardService {
	return &DashboardService{
		projects:  projects,
		accounts:  accounts,
		interests: interests,
		favorites: favorites,
		gallery:   gallery,
	}
}

// Stats returns the dashboard summary.
func (s *DashboardService) Stats(ctx context.Context, actor *models.Actor) (*models.DashboardStats, error) {
	if !actor.IsAdmin() {
		return nil, models.ErrForbidden
	}

	byStatus, err := s.projects.Counts(ctx)
	if err != nil {
		return nil, err
	}
	stats := &models.DashboardStats{ProjectsByStatus: byStatus}
	for _, n := range byStatus {
		stats.TotalProjects += n
	}

	stats.Students, stats.ActiveStudents, stats.Clients, stats.ActiveClients, err = s.accounts.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.ActiveInterests, err = s.interests.ActiveCount(ctx); err != nil {
		return nil, err
	}
	if stats.Favorites, err = s.favorites.Count(ctx); err != nil {
		return nil, err
	}
	if stats.GalleryItems, err = s.gallery.Count(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}
