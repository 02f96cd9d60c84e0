package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/capstonehub/backend/internal/db"
	"github.com/capstonehub/backend/internal/db/queries"
	"github.com/capstonehub/backend/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// GalleryRepository handles project_gallery rows.
type GalleryRepository struct {
	db *db.DB
}

// NewGalleryRepository creates a new instance of GalleryRepository.
func NewGalleryRepository(database *db.DB) *GalleryRepository {
	return &GalleryRepository{db: database}
}

func scanGalleryItem(row interface{ Scan(...interface{}) error }) (*models.GalleryItem, error) {
	var g models.GalleryItem
	err := row.Scan(
		&g.ID,
		&g.ProjectID,
		&g.Title,
		&g.Description,
		&g.ClientName,
		&g.ImageURL,
		&g.AcademicYear,
		pq.Array(&g.TeamMembers),
		&g.IsFeatured,
		&g.DisplayOrder,
		&g.IsPublished,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if g.TeamMembers == nil {
		g.TeamMembers = []string{}
	}
	return &g, nil
}

// Create inserts a gallery item.
func (r *GalleryRepository) Create(ctx context.Context, g *models.GalleryItem) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.TeamMembers == nil {
		g.TeamMembers = []string{}
	}
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, queries.CreateGalleryItemQuery,
		g.ID, g.ProjectID, g.Title, g.Description, g.ClientName, g.ImageURL, g.AcademicYear,
		pq.Array(g.TeamMembers), g.IsFeatured, g.DisplayOrder, g.IsPublished, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create gallery item: %w", err)
	}
	return nil
}

// GetByID retrieves a gallery item.
func (r *GalleryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error) {
	g, err := scanGalleryItem(r.db.QueryRowContext(ctx, queries.GetGalleryItemQuery, id))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("gallery item %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get gallery item %s: %w", id, err)
	}
	return g, nil
}

// List returns gallery items, featured first then by display order.
func (r *GalleryRepository) List(ctx context.Context, publishedOnly bool) ([]models.GalleryItem, error) {
	query := queries.ListAllGalleryQuery
	if publishedOnly {
		query = queries.ListPublishedGalleryQuery
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery: %w", err)
	}
	defer rows.Close()

	items := []models.GalleryItem{}
	for rows.Next() {
		g, err := scanGalleryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gallery row: %w", err)
		}
		items = append(items, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gallery rows: %w", err)
	}
	return items, nil
}

// Update rewrites a gallery item.
func (r *GalleryRepository) Update(ctx context.Context, g *models.GalleryItem) error {
	if g.TeamMembers == nil {
		g.TeamMembers = []string{}
	}
	g.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, queries.UpdateGalleryItemQuery,
		g.ProjectID, g.Title, g.Description, g.ClientName, g.ImageURL, g.AcademicYear,
		pq.Array(g.TeamMembers), g.IsFeatured, g.DisplayOrder, g.IsPublished, g.UpdatedAt, g.ID)
	if err != nil {
		return fmt.Errorf("failed to update gallery item %s: %w", g.ID, err)
	}
	return checkRowsAffected(result, fmt.Errorf("gallery item %s: %w", g.ID, models.ErrNotFound))
}

// Delete removes a gallery item.
func (r *GalleryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, queries.DeleteGalleryItemQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete gallery item %s: %w", id, err)
	}
	return checkRowsAffected(result, fmt.Errorf("gallery item %s: %w", id, models.ErrNotFound))
}

// Count returns the number of gallery items.
func (r *GalleryRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, queries.CountGalleryQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count gallery items: %w", err)
	}
	return count, nil
}
