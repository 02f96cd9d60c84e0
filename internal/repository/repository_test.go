package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/capstonehub/backend/internal/db"
	"github.com/capstonehub/backend/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var projectColumns = []string{
	"id", "client_id", "title", "description", "required_skills", "industry", "team_size",
	"duration_weeks", "deliverables", "status", "rejection_reason", "admin_notes",
	"submitted_at", "reviewed_at", "reviewed_by", "created_at", "updated_at",
	"organization_name", "interest_count",
}

func newMockDB(t *testing.T) (*db.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return &db.DB{DB: mockDB}, mock
}

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	assert.Equal(t, "", w.clause())

	w.add("a = ?", 1)
	w.add("(b ILIKE ? OR c ILIKE ?)", "%x%")
	assert.Equal(t, " WHERE a = $1 AND (b ILIKE $2 OR c ILIKE $2)", w.clause())

	suffix, args := w.paginate(20, 40)
	assert.Equal(t, " LIMIT $3 OFFSET $4", suffix)
	assert.Equal(t, []interface{}{1, "%x%", 20, 40}, args)
	assert.Len(t, w.args, 2, "paginate must not mutate the filter args")
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\% off%`, likePattern("50% off"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
}

func TestProjectRepository_GetByID(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewProjectRepository(database)
	ctx := context.Background()
	id := uuid.New()
	clientID := uuid.New()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT p.id, p.client_id").
			WithArgs(id.String()).
			WillReturnRows(sqlmock.NewRows(projectColumns).AddRow(
				id.String(), clientID.String(), "Inventory forecasting", "Build a demand model", "{go,sql}", "Retail", 4,
				nil, nil, "approved", nil, nil, now, nil, nil, now, now, "Acme", 3,
			))

		p, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		assert.Equal(t, clientID, p.ClientID)
		assert.Equal(t, models.ProjectStatusApproved, p.Status)
		assert.Equal(t, []string{"go", "sql"}, p.RequiredSkills)
		assert.Equal(t, "Acme", p.ClientName)
		assert.Equal(t, 3, p.InterestCount)
		require.NotNil(t, p.Industry)
		assert.Equal(t, "Retail", *p.Industry)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT p.id, p.client_id").
			WithArgs(id.String()).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Search(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewProjectRepository(database)
	ctx := context.Background()
	now := time.Now()

	t.Run("empty result skips list query", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM projects p JOIN clients c ON c.id = p.client_id WHERE p.status = ANY`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		projects, total, err := repo.Search(ctx, models.ProjectFilter{
			Statuses: []models.ProjectStatus{models.ProjectStatusApproved, models.ProjectStatusActive},
			Limit:    20,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, projects)
	})

	t.Run("filters sort and paging", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM projects p`).
			WithArgs(sqlmock.AnyArg(), "%data%", "fintech").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))
		mock.ExpectQuery(`ORDER BY interest_count DESC.* LIMIT \$4 OFFSET \$5`).
			WithArgs(sqlmock.AnyArg(), "%data%", "fintech", 20, 20).
			WillReturnRows(sqlmock.NewRows(projectColumns).AddRow(
				uuid.New().String(), uuid.New().String(), "Data pipeline", "Stream ingestion", "{}", "Fintech", 3,
				10, "Report", "active", nil, nil, now, now, nil, now, now, "Bank", 7,
			))

		projects, total, err := repo.Search(ctx, models.ProjectFilter{
			Statuses: []models.ProjectStatus{models.ProjectStatusApproved, models.ProjectStatusActive},
			Search:   "data",
			Industry: "fintech",
			Sort:     models.SortPopular,
			Limit:    20,
			Offset:   20,
		})
		require.NoError(t, err)
		assert.Equal(t, 41, total)
		require.Len(t, projects, 1)
		assert.Equal(t, 7, projects[0].InterestCount)
		assert.Equal(t, []string{}, projects[0].RequiredSkills)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_UpdateStatus(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewProjectRepository(database)
	ctx := context.Background()
	id := uuid.New()
	admin := uuid.New()

	change := StatusChange{
		ProjectID:  id,
		From:       models.ProjectStatusPending,
		To:         models.ProjectStatusApproved,
		ReviewedBy: &admin,
	}

	mock.ExpectExec("UPDATE projects SET status").
		WithArgs("approved", nil, nil, sqlmock.AnyArg(), admin.String(), sqlmock.AnyArg(), id.String(), "pending", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateStatus(ctx, change))

	mock.ExpectExec("UPDATE projects SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateStatus(ctx, change)
	assert.ErrorIs(t, err, models.ErrConflict)

	submitted := time.Now()
	reopen := StatusChange{
		ProjectID:   id,
		From:        models.ProjectStatusRejected,
		To:          models.ProjectStatusPending,
		SubmittedAt: &submitted,
	}
	mock.ExpectExec("UPDATE projects SET status").
		WithArgs("pending", nil, nil, nil, nil, sqlmock.AnyArg(), id.String(), "rejected", submitted).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateStatus(ctx, reopen))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Delete(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewProjectRepository(database)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM projects").WithArgs(id.String()).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_CountByStatus(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewProjectRepository(database)

	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 2).
			AddRow("active", 5))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, counts[models.ProjectStatusPending])
	assert.Equal(t, 5, counts[models.ProjectStatusActive])
	assert.Equal(t, 0, counts[models.ProjectStatusCompleted])
	assert.Len(t, counts, len(models.AllProjectStatuses))
}

func TestClientRepository_CreateDuplicateEmail(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewClientRepository(database)

	mock.ExpectExec("INSERT INTO clients").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	err := repo.Create(context.Background(), &models.Client{
		OrganizationName: "Acme",
		ContactName:      "Jo",
		Email:            "jo@acme.test",
		PasswordHash:     "hash",
		IsActive:         true,
	})
	assert.ErrorIs(t, err, models.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_List(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewStudentRepository(database)
	now := time.Now()
	active := true

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students s WHERE`).
		WithArgs("%lee%", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id, student_number").
		WithArgs("%lee%", true, 10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "student_number", "first_name", "last_name", "email", "password_hash", "major",
			"graduation_year", "skills", "bio", "is_active", "last_login_at", "created_at", "updated_at",
		}).AddRow(uuid.New().String(), "S1001", "Ana", "Lee", "ana@uni.test", "hash", "CS", 2026, "{go}", nil, true, nil, now, now))

	students, total, err := repo.List(context.Background(), models.UserFilter{Search: "lee", IsActive: &active, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, students, 1)
	assert.Equal(t, "Ana Lee", students[0].FullName())
	assert.Equal(t, []string{"go"}, students[0].Skills)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterestRepository(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewInterestRepository(database)
	ctx := context.Background()
	studentID := uuid.New()
	projectID := uuid.New()

	t.Run("get withdrawn row", func(t *testing.T) {
		interestID := uuid.New()
		mock.ExpectQuery("SELECT id, student_id, project_id, message, is_active").
			WithArgs(studentID.String(), projectID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "project_id", "message", "is_active", "created_at", "updated_at"}).
				AddRow(interestID.String(), studentID.String(), projectID.String(), nil, false, time.Now(), time.Now()))

		interest, err := repo.Get(ctx, studentID, projectID)
		require.NoError(t, err)
		assert.False(t, interest.IsActive)
		assert.Equal(t, interestID, interest.ID)
	})

	t.Run("reactivate keeps the row", func(t *testing.T) {
		msg := "still keen"
		interest := &models.StudentInterest{ID: uuid.New(), Message: &msg}
		mock.ExpectExec("UPDATE student_interests SET is_active = TRUE").
			WithArgs(msg, sqlmock.AnyArg(), interest.ID.String()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Reactivate(ctx, interest))
		assert.True(t, interest.IsActive)
	})

	t.Run("deactivate without active row", func(t *testing.T) {
		mock.ExpectExec("UPDATE student_interests SET is_active = FALSE").
			WithArgs(sqlmock.AnyArg(), studentID.String(), projectID.String()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Deactivate(ctx, studentID, projectID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("count active", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT").
			WithArgs(studentID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.CountActiveByStudent(ctx, studentID)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("create race maps to conflict", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO student_interests").
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, &models.StudentInterest{StudentID: studentID, ProjectID: projectID})
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewFavoriteRepository(database)
	ctx := context.Background()
	studentID := uuid.New()
	projectID := uuid.New()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(studentID.String(), projectID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	exists, err := repo.Exists(ctx, studentID, projectID)
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectExec("INSERT INTO student_favorites").
		WillReturnError(&pq.Error{Code: "23505"})
	err = repo.Create(ctx, &models.StudentFavorite{StudentID: studentID, ProjectID: projectID})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	mock.ExpectExec("DELETE FROM student_favorites").
		WithArgs(studentID.String(), projectID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, studentID, projectID), models.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepository_Update(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewSettingsRepository(database)
	ctx := context.Background()

	t.Run("commits", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE config_settings").
			WithArgs("7", sqlmock.AnyArg(), nil, "max_student_interests").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Update(ctx, map[string]string{"max_student_interests": "7"}, nil))
	})

	t.Run("unknown key rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE config_settings").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Update(ctx, map[string]string{"nope": "1"}, nil)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthTokenRepository(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewAuthTokenRepository(database)
	ctx := context.Background()

	mock.ExpectQuery("SELECT id, subject_id, role, token").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	_, err := repo.Get(ctx, "missing")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	subject := uuid.New()
	mock.ExpectExec("DELETE FROM auth_tokens WHERE subject_id").
		WithArgs(subject.String(), "student").
		WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := repo.RemoveForSubject(ctx, subject, models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	mock.ExpectExec("DELETE FROM auth_tokens WHERE expires_at").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 12))
	n, err = repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogRepository_List(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewAuditLogRepository(database)
	projectID := uuid.New().String()

	mock.ExpectQuery("FROM audit_logs WHERE entity_type = \\$1 AND entity_id = \\$2 ORDER BY created_at DESC LIMIT \\$3").
		WithArgs("project", projectID, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "actor_type", "actor_id", "action", "entity_type", "entity_id", "details", "ip_address", "created_at"}).
			AddRow(uuid.New().String(), "admin", uuid.New().String(), "project.status_changed", "project", projectID,
				[]byte(`{"from":"pending","to":"approved"}`), nil, time.Now()))

	entries, err := repo.List(context.Background(), models.AuditFilter{EntityType: "project", EntityID: projectID, Limit: 50})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.JSONEq(t, `{"from":"pending","to":"approved"}`, string(entries[0].Details))
	assert.NoError(t, mock.ExpectationsWereMet())
}
