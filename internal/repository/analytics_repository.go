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

// AnalyticsRepository appends usage events and aggregates them for reports.
type AnalyticsRepository struct {
	db *db.DB
}

// NewAnalyticsRepository creates a new instance of AnalyticsRepository.
func NewAnalyticsRepository(database *db.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: database}
}

// Create appends an analytics event.
func (r *AnalyticsRepository) Create(ctx context.Context, e *models.AnalyticsEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	var metadata interface{}
	if len(e.Metadata) > 0 {
		metadata = []byte(e.Metadata)
	}
	_, err := r.db.ExecContext(ctx, queries.CreateAnalyticsEventQuery,
		e.ID, e.EventType, e.ActorType, e.ActorID, e.EntityID, metadata, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record analytics event: %w", err)
	}
	return nil
}

// CountByType aggregates events since the given time by event type.
func (r *AnalyticsRepository) CountByType(ctx context.Context, since time.Time) ([]models.EventTypeCount, error) {
	rows, err := r.db.QueryContext(ctx, queries.CountEventsByTypeQuery, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by type: %w", err)
	}
	defer rows.Close()

	counts := []models.EventTypeCount{}
	for rows.Next() {
		var c models.EventTypeCount
		if err := rows.Scan(&c.EventType, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountByDay aggregates events since the given time by calendar day.
func (r *AnalyticsRepository) CountByDay(ctx context.Context, since time.Time) ([]models.DailyEventCount, error) {
	rows, err := r.db.QueryContext(ctx, queries.CountEventsByDayQuery, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by day: %w", err)
	}
	defer rows.Close()

	counts := []models.DailyEventCount{}
	for rows.Next() {
		var c models.DailyEventCount
		if err := rows.Scan(&c.Day, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// TopViewedProjects returns the most viewed projects since the given time.
func (r *AnalyticsRepository) TopViewedProjects(ctx context.Context, since time.Time, limit int) ([]models.ProjectViews, error) {
	rows, err := r.db.QueryContext(ctx, queries.TopViewedProjectsQuery, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank viewed projects: %w", err)
	}
	defer rows.Close()

	views := []models.ProjectViews{}
	for rows.Next() {
		var v models.ProjectViews
		if err := rows.Scan(&v.ProjectID, &v.Title, &v.Views); err != nil {
			return nil, fmt.Errorf("failed to scan project views: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// DeleteBefore prunes events older than cutoff.
func (r *AnalyticsRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, queries.DeleteAnalyticsBeforeQuery, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune analytics events: %w", err)
	}
	return result.RowsAffected()
}
