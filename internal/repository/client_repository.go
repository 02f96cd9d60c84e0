package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/capstonehub/backend/internal/db"
	"github.com/capstonehub/backend/internal/db/queries"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/pkg/debug"
	"github.com/google/uuid"
)

// ClientRepository handles database operations for industry clients.
type ClientRepository struct {
	db *db.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(database *db.DB) *ClientRepository {
	return &ClientRepository{db: database}
}

// Create inserts a new client record into the database.
func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	now := time.Now()
	client.CreatedAt = now
	client.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, queries.CreateClientQuery,
		client.ID,
		client.OrganizationName,
		client.ContactName,
		client.Email,
		client.PasswordHash,
		client.Phone,
		client.Website,
		client.Industry,
		client.Description,
		client.IsActive,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("client with email %s already exists: %w", client.Email, models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func scanClient(row interface{ Scan(...interface{}) error }, extra ...interface{}) (*models.Client, error) {
	var c models.Client
	dest := []interface{}{
		&c.ID,
		&c.OrganizationName,
		&c.ContactName,
		&c.Email,
		&c.PasswordHash,
		&c.Phone,
		&c.Website,
		&c.Industry,
		&c.Description,
		&c.IsActive,
		&c.LastLoginAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
	if len(extra) > 0 {
		dest = append(dest, &c.ProjectCount)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID retrieves a client by its ID.
func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client, err := scanClient(r.db.QueryRowContext(ctx, queries.GetClientByIDQuery, id))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("client %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get client by ID %s: %w", id, err)
	}
	return client, nil
}

// GetByEmail retrieves a client by normalized email.
func (r *ClientRepository) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	client, err := scanClient(r.db.QueryRowContext(ctx, queries.GetClientByEmailQuery, email))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("client with email %s: %w", email, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get client by email: %w", err)
	}
	return client, nil
}

// UpdateProfile writes the editable profile fields.
func (r *ClientRepository) UpdateProfile(ctx context.Context, client *models.Client) error {
	client.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, queries.UpdateClientProfileQuery,
		client.OrganizationName,
		client.ContactName,
		client.Phone,
		client.Website,
		client.Industry,
		client.Description,
		client.UpdatedAt,
		client.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client %s: %w", client.ID, err)
	}
	return checkRowsAffected(result, fmt.Errorf("client %s: %w", client.ID, models.ErrNotFound))
}

// UpdatePassword stores a new password hash.
func (r *ClientRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	result, err := r.db.ExecContext(ctx, queries.UpdateClientPasswordQuery, hash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update client password: %w", err)
	}
	return checkRowsAffected(result, fmt.Errorf("client %s: %w", id, models.ErrNotFound))
}

// UpdateLastLogin records a successful login.
func (r *ClientRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, queries.UpdateClientLastLoginQuery, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update client last login: %w", err)
	}
	return nil
}

// SetActive activates or deactivates a client account.
func (r *ClientRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx, queries.SetClientActiveQuery, active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update client status: %w", err)
	}
	return checkRowsAffected(result, fmt.Errorf("client %s: %w", id, models.ErrNotFound))
}

// List returns a page of clients matching filter and the total match count.
func (r *ClientRepository) List(ctx context.Context, filter models.UserFilter) ([]models.Client, int, error) {
	var where whereBuilder
	if filter.Search != "" {
		where.add("(c.organization_name ILIKE ? OR c.contact_name ILIKE ? OR c.email ILIKE ?)", likePattern(filter.Search))
	}
	if filter.IsActive != nil {
		where.add("c.is_active = ?", *filter.IsActive)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, queries.CountClientsBaseQuery+where.clause(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}
	if total == 0 {
		return []models.Client{}, 0, nil
	}

	suffix, args := where.paginate(filter.Limit, filter.Offset)
	query := queries.ListClientsBaseQuery + where.clause() + " ORDER BY c.organization_name ASC" + suffix
	debug.Debug("[ClientRepo.List] query=%s args=%v", query, args)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		client, err := scanClient(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan client row: %w", err)
		}
		clients = append(clients, *client)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating client rows: %w", err)
	}
	return clients, total, nil
}

// Stats returns the total and active client counts.
func (r *ClientRepository) Stats(ctx context.Context) (total, active int, err error) {
	if err = r.db.QueryRowContext(ctx, queries.ClientStatsQuery).Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return total, active, nil
}
