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

// StudentRepository handles database operations for students.
type StudentRepository struct {
	db *db.DB
}

// NewStudentRepository creates a new instance of StudentRepository.
func NewStudentRepository(database *db.DB) *StudentRepository {
	return &StudentRepository{db: database}
}

// Create inserts a new student. Email and student number are unique.
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Skills == nil {
		s.Skills = []string{}
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, queries.CreateStudentQuery,
		s.ID,
		s.StudentNumber,
		s.FirstName,
		s.LastName,
		s.Email,
		s.PasswordHash,
		s.Major,
		s.GraduationYear,
		pq.Array(s.Skills),
		s.Bio,
		s.IsActive,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("student with email or number already exists: %w", models.ErrDuplicate)
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

func scanStudent(row interface{ Scan(...interface{}) error }) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID,
		&s.StudentNumber,
		&s.FirstName,
		&s.LastName,
		&s.Email,
		&s.PasswordHash,
		&s.Major,
		&s.GraduationYear,
		pq.Array(&s.Skills),
		&s.Bio,
		&s.IsActive,
		&s.LastLoginAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if s.Skills == nil {
		s.Skills = []string{}
	}
	return &s, nil
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	s, err := scanStudent(r.db.QueryRowContext(ctx, queries.GetStudentByIDQuery, id))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("student %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get student %s: %w", id, err)
	}
	return s, nil
}

// GetByEmail retrieves a student by normalized email.
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	s, err := scanStudent(r.db.QueryRowContext(ctx, queries.GetStudentByEmailQuery, email))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("student with email %s: %w", email, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get student by email: %w", err)
	}
	return s, nil
}

// UpdateProfile writes the editable profile fields. Email is immutable.
func (r *StudentRepository) UpdateProfile(ctx context.Context, s *models.Student) error {
	if s.Skills == nil {
		s.Skills = []string{}
	}
	s.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, queries.UpdateStudentProfileQuery,
		s.FirstName,
		s.LastName,
		s.Major,
		s.GraduationYear,
		pq.Array(s.Skills),
		s.Bio,
		s.UpdatedAt,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update student %s: %w", s.ID, err)
	}
	return checkRowsAffected(result, fmt.Errorf("student %s: %w", s.ID, models.ErrNotFound))
}

// UpdatePassword stores a new password hash.
func (r *StudentRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	result, err := r.db.ExecContext(ctx, queries.UpdateStudentPasswordQuery, hash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update student password: %w", err)
	}
	return checkRowsAffected(result, fmt.Errorf("student %s: %w", id, models.ErrNotFound))
}

// UpdateLastLogin records a successful login.
func (r *StudentRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, queries.UpdateStudentLastLoginQuery, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update student last login: %w", err)
	}
	return nil
}

// SetActive activates or deactivates a student account.
func (r *StudentRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx, queries.SetStudentActiveQuery, active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update student status: %w", err)
	}
	return checkRowsAffected(result, fmt.Errorf("student %s: %w", id, models.ErrNotFound))
}

// List returns a page of students matching filter and the total match count.
func (r *StudentRepository) List(ctx context.Context, filter models.UserFilter) ([]models.Student, int, error) {
	var where whereBuilder
	if filter.Search != "" {
		where.add("(s.first_name ILIKE ? OR s.last_name ILIKE ? OR s.email ILIKE ? OR s.student_number ILIKE ?)", likePattern(filter.Search))
	}
	if filter.IsActive != nil {
		where.add("s.is_active = ?", *filter.IsActive)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, queries.CountStudentsBaseQuery+where.clause(), where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}
	if total == 0 {
		return []models.Student{}, 0, nil
	}

	suffix, args := where.paginate(filter.Limit, filter.Offset)
	query := queries.ListStudentsBaseQuery + where.clause() + " ORDER BY s.last_name ASC, s.first_name ASC" + suffix
	debug.Debug("[StudentRepo.List] query=%s args=%v", query, args)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := []models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan student row: %w", err)
		}
		students = append(students, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, total, nil
}

// Stats returns the total and active student counts.
func (r *StudentRepository) Stats(ctx context.Context) (total, active int, err error) {
	if err = r.db.QueryRowContext(ctx, queries.StudentStatsQuery).Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("failed to count students: %w", err)
	}
	return total, active, nil
}
