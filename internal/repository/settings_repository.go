package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/capstonehub/backend/internal/db"
	"github.com/capstonehub/backend/internal/db/queries"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/google/uuid"
)

// SettingsRepository handles database operations for config_settings.
type SettingsRepository struct {
	db *db.DB
}

// NewSettingsRepository creates a new instance of SettingsRepository.
func NewSettingsRepository(database *db.DB) *SettingsRepository {
	return &SettingsRepository{db: database}
}

func scanSetting(row interface{ Scan(...interface{}) error }) (*models.ConfigSetting, error) {
	var s models.ConfigSetting
	if err := row.Scan(&s.Key, &s.Value, &s.Description, &s.DataType, &s.IsPublic, &s.UpdatedAt, &s.UpdatedBy); err != nil {
		return nil, err
	}
	return &s, nil
}

// Get retrieves a specific setting by its key.
func (r *SettingsRepository) Get(ctx context.Context, key string) (*models.ConfigSetting, error) {
	s, err := scanSetting(r.db.QueryRowContext(ctx, queries.GetSettingQuery, key))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("setting '%s': %w", key, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get setting '%s': %w", key, err)
	}
	return s, nil
}

// List retrieves all settings, or only the public ones.
func (r *SettingsRepository) List(ctx context.Context, publicOnly bool) ([]models.ConfigSetting, error) {
	query := queries.ListSettingsQuery
	if publicOnly {
		query = queries.ListPublicSettingsQuery
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	settings := []models.ConfigSetting{}
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		settings = append(settings, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating setting rows: %w", err)
	}
	return settings, nil
}

// Update sets one or more setting values in a single transaction.
func (r *SettingsRepository) Update(ctx context.Context, values map[string]string, updatedBy *uuid.UUID) error {
	now := time.Now()
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for key, value := range values {
			debug.Debug("Updating setting %s", key)
			result, err := tx.ExecContext(ctx, queries.UpdateSettingQuery, value, now, updatedBy, key)
			if err != nil {
				return fmt.Errorf("failed to update setting '%s': %w", key, err)
			}
			if err := checkRowsAffected(result, fmt.Errorf("setting '%s': %w", key, models.ErrNotFound)); err != nil {
				return err
			}
		}
		return nil
	})
}
