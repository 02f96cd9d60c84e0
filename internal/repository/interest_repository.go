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

// InterestRepository handles student_interests rows. Withdrawn interests
// are kept with is_active = false.
type InterestRepository struct {
	db *db.DB
}

// NewInterestRepository creates a new instance of InterestRepository.
func NewInterestRepository(database *db.DB) *InterestRepository {
	return &InterestRepository{db: database}
}

// Get returns the interest row for a student/project pair, active or not.
func (r *InterestRepository) Get(ctx context.Context, studentID, projectID uuid.UUID) (*models.StudentInterest, error) {
	var i models.StudentInterest
	err := r.db.QueryRowContext(ctx, queries.GetInterestQuery, studentID, projectID).Scan(
		&i.ID, &i.StudentID, &i.ProjectID, &i.Message, &i.IsActive, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("interest of student %s in project %s: %w", studentID, projectID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get interest: %w", err)
	}
	return &i, nil
}

// Create inserts a new active interest.
func (r *InterestRepository) Create(ctx context.Context, i *models.StudentInterest) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	now := time.Now()
	i.CreatedAt = now
	i.UpdatedAt = now
	i.IsActive = true
	_, err := r.db.ExecContext(ctx, queries.CreateInterestQuery,
		i.ID, i.StudentID, i.ProjectID, i.Message, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("interest already recorded: %w", models.ErrConflict)
		}
		return fmt.Errorf("failed to create interest: %w", err)
	}
	return nil
}

// Reactivate turns a withdrawn interest back on with a new message.
func (r *InterestRepository) Reactivate(ctx context.Context, i *models.StudentInterest) error {
	i.UpdatedAt = time.Now()
	i.IsActive = true
	result, err := r.db.ExecContext(ctx, queries.ReactivateInterestQuery, i.Message, i.UpdatedAt, i.ID)
	if err != nil {
		return fmt.Errorf("failed to reactivate interest %s: %w", i.ID, err)
	}
	return checkRowsAffected(result, fmt.Errorf("interest %s: %w", i.ID, models.ErrNotFound))
}

// Deactivate withdraws an active interest.
func (r *InterestRepository) Deactivate(ctx context.Context, studentID, projectID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, queries.DeactivateInterestQuery, time.Now(), studentID, projectID)
	if err != nil {
		return fmt.Errorf("failed to withdraw interest: %w", err)
	}
	return checkRowsAffected(result, fmt.Errorf("active interest of student %s in project %s: %w", studentID, projectID, models.ErrNotFound))
}

// CountActiveByStudent returns how many active interests a student holds.
func (r *InterestRepository) CountActiveByStudent(ctx context.Context, studentID uuid.UUID) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, queries.CountActiveInterestsByStudentQuery, studentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count interests: %w", err)
	}
	return count, nil
}

// ListByStudent returns a student's interests, newest first.
func (r *InterestRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, includeInactive bool) ([]models.StudentInterest, error) {
	rows, err := r.db.QueryContext(ctx, queries.ListStudentInterestsQuery, studentID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}
	defer rows.Close()

	interests := []models.StudentInterest{}
	for rows.Next() {
		var i models.StudentInterest
		if err := rows.Scan(&i.ID, &i.StudentID, &i.ProjectID, &i.Message, &i.IsActive, &i.CreatedAt, &i.UpdatedAt,
			&i.ProjectTitle, &i.ProjectStatus, &i.ClientName); err != nil {
			return nil, fmt.Errorf("failed to scan interest row: %w", err)
		}
		interests = append(interests, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interest rows: %w", err)
	}
	return interests, nil
}

// ListByProject returns the students actively interested in a project.
func (r *InterestRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.InterestedStudent, error) {
	rows, err := r.db.QueryContext(ctx, queries.ListProjectInterestsQuery, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project interests: %w", err)
	}
	defer rows.Close()

	students := []models.InterestedStudent{}
	for rows.Next() {
		var s models.InterestedStudent
		if err := rows.Scan(&s.InterestID, &s.StudentID, &s.StudentNumber, &s.FirstName, &s.LastName, &s.Email,
			&s.Major, &s.GraduationYear, pq.Array(&s.Skills), &s.Message, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interested student: %w", err)
		}
		if s.Skills == nil {
			s.Skills = []string{}
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interested students: %w", err)
	}
	return students, nil
}

// CountActive returns the number of active interests across all students.
func (r *InterestRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, queries.CountActiveInterestsQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active interests: %w", err)
	}
	return count, nil
}
