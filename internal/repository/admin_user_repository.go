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

// AdminUserRepository handles database operations for administrators.
type AdminUserRepository struct {
	db *db.DB
}

// NewAdminUserRepository creates a new instance of AdminUserRepository.
func NewAdminUserRepository(database *db.DB) *AdminUserRepository {
	return &AdminUserRepository{db: database}
}

// Create inserts a new administrator.
func (r *AdminUserRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, queries.CreateAdminUserQuery,
		admin.ID,
		admin.Email,
		admin.FullName,
		admin.PasswordHash,
		admin.IsActive,
		admin.CreatedAt,
		admin.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("admin with email %s already exists: %w", admin.Email, models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}

func (r *AdminUserRepository) scan(row interface{ Scan(...interface{}) error }) (*models.AdminUser, error) {
	var a models.AdminUser
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.FullName,
		&a.PasswordHash,
		&a.IsActive,
		&a.MFAEnabled,
		&a.MFASecret,
		&a.LastLoginAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID retrieves an administrator by ID.
func (r *AdminUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	admin, err := r.scan(r.db.QueryRowContext(ctx, queries.GetAdminUserByIDQuery, id))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("admin %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin %s: %w", id, err)
	}
	return admin, nil
}

// GetByEmail retrieves an administrator by normalized email.
func (r *AdminUserRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	admin, err := r.scan(r.db.QueryRowContext(ctx, queries.GetAdminUserByEmailQuery, email))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("admin with email %s: %w", email, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	return admin, nil
}

// UpdatePassword stores a new password hash.
func (r *AdminUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	result, err := r.db.ExecContext(ctx, queries.UpdateAdminPasswordQuery, hash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}
	return checkRowsAffected(result, fmt.Errorf("admin %s: %w", id, models.ErrNotFound))
}

// UpdateLastLogin records a successful login.
func (r *AdminUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, queries.UpdateAdminLastLoginQuery, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update admin last login: %w", err)
	}
	return nil
}

// SetMFASecret stores a pending TOTP secret; MFA stays disabled until enabled.
func (r *AdminUserRepository) SetMFASecret(ctx context.Context, id uuid.UUID, secret string) error {
	result, err := r.db.ExecContext(ctx, queries.SetAdminMFASecretQuery, secret, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to store mfa secret: %w", err)
	}
	return checkRowsAffected(result, fmt.Errorf("admin %s: %w", id, models.ErrNotFound))
}

// SetMFAEnabled toggles MFA. Disabling also clears the stored secret.
func (r *AdminUserRepository) SetMFAEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	result, err := r.db.ExecContext(ctx, queries.SetAdminMFAEnabledQuery, enabled, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update mfa state: %w", err)
	}
	return checkRowsAffected(result, fmt.Errorf("admin %s: %w", id, models.ErrNotFound))
}
