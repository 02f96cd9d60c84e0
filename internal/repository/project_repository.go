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
	"github.com/lib/pq"
)

// projectOrderBy maps sort keys to ORDER BY clauses. Unknown keys fall back
// to newest first.
var projectOrderBy = map[string]string{
	models.SortNewest:  " ORDER BY p.submitted_at DESC, p.id",
	models.SortOldest:  " ORDER BY p.submitted_at ASC, p.id",
	models.SortTitle:   " ORDER BY lower(p.title) ASC, p.id",
	models.SortPopular: " ORDER BY interest_count DESC, p.submitted_at DESC, p.id",
}

// ProjectRepository handles database operations for projects.
type ProjectRepository struct {
	db *db.DB
}

// NewProjectRepository creates a new instance of ProjectRepository.
func NewProjectRepository(database *db.DB) *ProjectRepository {
	return &ProjectRepository{db: database}
}

// Create inserts a new project.
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.RequiredSkills == nil {
		p.RequiredSkills = []string{}
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.SubmittedAt.IsZero() {
		p.SubmittedAt = now
	}

	_, err := r.db.ExecContext(ctx, queries.CreateProjectQuery,
		p.ID,
		p.ClientID,
		p.Title,
		p.Description,
		pq.Array(p.RequiredSkills),
		p.Industry,
		p.TeamSize,
		p.DurationWeeks,
		p.Deliverables,
		p.Status,
		p.SubmittedAt,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func scanProject(row interface{ Scan(...interface{}) error }) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID,
		&p.ClientID,
		&p.Title,
		&p.Description,
		pq.Array(&p.RequiredSkills),
		&p.Industry,
		&p.TeamSize,
		&p.DurationWeeks,
		&p.Deliverables,
		&p.Status,
		&p.RejectionReason,
		&p.AdminNotes,
		&p.SubmittedAt,
		&p.ReviewedAt,
		&p.ReviewedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.ClientName,
		&p.InterestCount,
	)
	if err != nil {
		return nil, err
	}
	if p.RequiredSkills == nil {
		p.RequiredSkills = []string{}
	}
	return &p, nil
}

// GetByID retrieves a project with its client name and interest count.
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, queries.GetProjectByIDQuery, id))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("project %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return p, nil
}

// Search returns a page of projects matching filter and the total match count.
func (r *ProjectRepository) Search(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int, error) {
	var where whereBuilder
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		where.add("p.status = ANY(?)", pq.Array(statuses))
	}
	if filter.Search != "" {
		where.add("(p.title ILIKE ? OR p.description ILIKE ? OR array_to_string(p.required_skills, ' ') ILIKE ?)", likePattern(filter.Search))
	}
	if filter.Industry != "" {
		where.add("p.industry ILIKE ?", filter.Industry)
	}
	if filter.Skill != "" {
		where.add("EXISTS (SELECT 1 FROM unnest(p.required_skills) sk WHERE sk ILIKE ?)", filter.Skill)
	}
	if filter.ClientID != nil {
		where.add("p.client_id = ?", *filter.ClientID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, queries.CountProjectsBaseQuery+where.clause(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}
	if total == 0 {
		return []models.Project{}, 0, nil
	}

	orderBy, ok := projectOrderBy[filter.Sort]
	if !ok {
		orderBy = projectOrderBy[models.SortNewest]
	}
	suffix, args := where.paginate(filter.Limit, filter.Offset)
	query := queries.SearchProjectsBaseQuery + where.clause() + orderBy + suffix
	debug.Debug("[ProjectRepo.Search] query=%s args=%v", query, args)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, total, nil
}

// Update writes the editable fields plus status, rejection reason and
// submitted_at, which change together when a rejected project is resubmitted.
// The write only applies while the stored status still equals expected.
func (r *ProjectRepository) Update(ctx context.Context, p *models.Project, expected models.ProjectStatus) error {
	if p.RequiredSkills == nil {
		p.RequiredSkills = []string{}
	}
	p.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, queries.UpdateProjectQuery,
		p.Title,
		p.Description,
		pq.Array(p.RequiredSkills),
		p.Industry,
		p.TeamSize,
		p.DurationWeeks,
		p.Deliverables,
		p.Status,
		p.RejectionReason,
		p.SubmittedAt,
		p.UpdatedAt,
		p.ID,
		expected,
	)
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", p.ID, err)
	}
	return checkRowsAffected(result, fmt.Errorf("project %s is no longer %s: %w", p.ID, expected, models.ErrConflict))
}

// StatusChange describes a guarded status update.
type StatusChange struct {
	ProjectID       uuid.UUID
	From            models.ProjectStatus
	To              models.ProjectStatus
	RejectionReason *string
	AdminNotes      *string
	ReviewedBy      *uuid.UUID
	// SubmittedAt, when set, restarts the review clock on resubmission.
	SubmittedAt *time.Time
}

// UpdateStatus moves a project from change.From to change.To. It fails with
// ErrConflict when the stored status no longer equals change.From.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, change StatusChange) error {
	now := time.Now()
	var reviewedAt *time.Time
	if change.ReviewedBy != nil {
		reviewedAt = &now
	}
	result, err := r.db.ExecContext(ctx, queries.UpdateProjectStatusQuery,
		change.To,
		change.RejectionReason,
		change.AdminNotes,
		reviewedAt,
		change.ReviewedBy,
		now,
		change.ProjectID,
		change.From,
		change.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}
	return checkRowsAffected(result, fmt.Errorf("project %s is no longer %s: %w", change.ProjectID, change.From, models.ErrConflict))
}

// Delete removes a project; interests and favorites cascade.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, queries.DeleteProjectQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	return checkRowsAffected(result, fmt.Errorf("project %s: %w", id, models.ErrNotFound))
}

// CountByStatus returns the number of projects in each status.
func (r *ProjectRepository) CountByStatus(ctx context.Context) (map[models.ProjectStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, queries.CountProjectsByStatusQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.ProjectStatus]int, len(models.AllProjectStatuses))
	for _, s := range models.AllProjectStatuses {
		counts[s] = 0
	}
	for rows.Next() {
		var status models.ProjectStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
