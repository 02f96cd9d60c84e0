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

// AuthTokenRepository persists issued session tokens so they can be revoked.
type AuthTokenRepository struct {
	db *db.DB
}

// NewAuthTokenRepository creates a new instance of AuthTokenRepository.
func NewAuthTokenRepository(database *db.DB) *AuthTokenRepository {
	return &AuthTokenRepository{db: database}
}

// Store records an issued token.
func (r *AuthTokenRepository) Store(ctx context.Context, t *models.AuthToken) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now()
	t.CreatedAt = now
	t.LastActivity = now
	_, err := r.db.ExecContext(ctx, queries.StoreTokenQuery,
		t.ID, t.SubjectID, t.Role, t.Token, t.ExpiresAt, t.LastActivity, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Get looks up a stored token.
func (r *AuthTokenRepository) Get(ctx context.Context, token string) (*models.AuthToken, error) {
	var t models.AuthToken
	err := r.db.QueryRowContext(ctx, queries.GetTokenQuery, token).Scan(
		&t.ID, &t.SubjectID, &t.Role, &t.Token, &t.ExpiresAt, &t.LastActivity, &t.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("token: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return &t, nil
}

// Touch updates the token's last activity timestamp.
func (r *AuthTokenRepository) Touch(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, queries.TouchTokenQuery, time.Now(), token); err != nil {
		return fmt.Errorf("failed to update token activity: %w", err)
	}
	return nil
}

// Remove revokes a single token.
func (r *AuthTokenRepository) Remove(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, queries.RemoveTokenQuery, token); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// RemoveForSubject revokes every token held by one account.
func (r *AuthTokenRepository) RemoveForSubject(ctx context.Context, subjectID uuid.UUID, role string) (int64, error) {
	result, err := r.db.ExecContext(ctx, queries.RemoveSubjectTokensQuery, subjectID, role)
	if err != nil {
		return 0, fmt.Errorf("failed to remove tokens for %s %s: %w", role, subjectID, err)
	}
	return result.RowsAffected()
}

// DeleteExpired removes tokens that expired before now.
func (r *AuthTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, queries.DeleteExpiredTokensQuery, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return result.RowsAffected()
}
