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

// AuditLogRepository appends and reads audit_logs rows.
type AuditLogRepository struct {
	db *db.DB
}

// NewAuditLogRepository creates a new instance of AuditLogRepository.
func NewAuditLogRepository(database *db.DB) *AuditLogRepository {
	return &AuditLogRepository{db: database}
}

// Create appends an audit entry.
func (r *AuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	var details interface{}
	if len(entry.Details) > 0 {
		details = []byte(entry.Details)
	}
	_, err := r.db.ExecContext(ctx, queries.CreateAuditLogQuery,
		entry.ID, entry.ActorType, entry.ActorID, entry.Action, entry.EntityType, entry.EntityID,
		details, entry.IPAddress, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// List returns audit entries matching filter, newest first.
func (r *AuditLogRepository) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	var where whereBuilder
	if filter.EntityType != "" {
		where.add("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		where.add("entity_id = ?", filter.EntityID)
	}
	if filter.ActorID != nil {
		where.add("actor_id = ?", *filter.ActorID)
	}
	if filter.Action != "" {
		where.add("action = ?", filter.Action)
	}
	suffix, args := where.paginate(filter.Limit, filter.Offset)
	query := queries.ListAuditLogsBaseQuery + where.clause() + " ORDER BY created_at DESC" + suffix

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	entries := []models.AuditLog{}
	for rows.Next() {
		var e models.AuditLog
		var details []byte
		if err := rows.Scan(&e.ID, &e.ActorType, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID,
			&details, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		if len(details) > 0 {
			e.Details = details
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}
	return entries, nil
}

// DeleteBefore prunes entries older than cutoff.
func (r *AuditLogRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, queries.DeleteAuditLogsBeforeQuery, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit logs: %w", err)
	}
	return result.RowsAffected()
}

// ErrorLogRepository appends and reads error_logs rows.
type ErrorLogRepository struct {
	db *db.DB
}

// NewErrorLogRepository creates a new instance of ErrorLogRepository.
func NewErrorLogRepository(database *db.DB) *ErrorLogRepository {
	return &ErrorLogRepository{db: database}
}

// Create appends an error entry.
func (r *ErrorLogRepository) Create(ctx context.Context, entry *models.ErrorLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, queries.CreateErrorLogQuery,
		entry.ID, entry.RequestID, entry.Method, entry.Path, entry.StatusCode, entry.Message,
		entry.ActorType, entry.ActorID, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}
	return nil
}

// List returns a page of error entries, newest first, and the total count.
func (r *ErrorLogRepository) List(ctx context.Context, limit, offset int) ([]models.ErrorLog, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, queries.CountErrorLogsQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count error logs: %w", err)
	}
	if total == 0 {
		return []models.ErrorLog{}, 0, nil
	}

	rows, err := r.db.QueryContext(ctx, queries.ListErrorLogsQuery, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list error logs: %w", err)
	}
	defer rows.Close()

	entries := []models.ErrorLog{}
	for rows.Next() {
		var e models.ErrorLog
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Method, &e.Path, &e.StatusCode, &e.Message,
			&e.ActorType, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan error log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating error log rows: %w", err)
	}
	return entries, total, nil
}

// DeleteBefore prunes entries older than cutoff.
func (r *ErrorLogRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, queries.DeleteErrorLogsBeforeQuery, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune error logs: %w", err)
	}
	return result.RowsAffected()
}
