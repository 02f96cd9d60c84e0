package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/capstonehub/backend/internal/db"
	"github.com/capstonehub/backend/internal/db/queries"
	"github.com/capstonehub/backend/internal/models"
	"github.com/google/uuid"
)

// FavoriteRepository handles student_favorites rows.
type FavoriteRepository struct {
	db *db.DB
}

// NewFavoriteRepository creates a new instance of FavoriteRepository.
func NewFavoriteRepository(database *db.DB) *FavoriteRepository {
	return &FavoriteRepository{db: database}
}

// Create bookmarks a project for a student.
func (r *FavoriteRepository) Create(ctx context.Context, f *models.StudentFavorite) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, queries.CreateFavoriteQuery, f.ID, f.StudentID, f.ProjectID, f.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("project already in favorites: %w", models.ErrDuplicate)
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// Delete removes a bookmark.
func (r *FavoriteRepository) Delete(ctx context.Context, studentID, projectID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, queries.DeleteFavoriteQuery, studentID, projectID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return checkRowsAffected(result, fmt.Errorf("favorite of student %s for project %s: %w", studentID, projectID, models.ErrNotFound))
}

// Exists reports whether the student has bookmarked the project.
func (r *FavoriteRepository) Exists(ctx context.Context, studentID, projectID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, queries.FavoriteExistsQuery, studentID, projectID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

// CountByStudent returns the number of favorites a student holds.
func (r *FavoriteRepository) CountByStudent(ctx context.Context, studentID uuid.UUID) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, queries.CountFavoritesByStudentQuery, studentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}

// ListByStudent returns a student's favorites, newest first.
func (r *FavoriteRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.StudentFavorite, error) {
	rows, err := r.db.QueryContext(ctx, queries.ListFavoritesQuery, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []models.StudentFavorite{}
	for rows.Next() {
		var f models.StudentFavorite
		if err := rows.Scan(&f.ID, &f.StudentID, &f.ProjectID, &f.CreatedAt, &f.ProjectTitle, &f.ProjectStatus, &f.ClientName); err != nil {
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorite rows: %w", err)
	}
	return favorites, nil
}

// Count returns the total number of favorites.
func (r *FavoriteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, queries.CountFavoritesQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}
