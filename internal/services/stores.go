package services

import (
	"context"
	"time"

	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/internal/repository"
	emailtypes "github.com/capstonehub/backend/pkg/email"
	"github.com/google/uuid"
)

// The interfaces below are satisfied by the repository package. Services
// depend on them so tests can substitute in-memory stores.

// ProjectStore persists projects.
type ProjectStore interface {
	Create(ctx context.Context, p *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Search(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int, error)
	Update(ctx context.Context, p *models.Project, expected models.ProjectStatus) error
	UpdateStatus(ctx context.Context, change repository.StatusChange) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[models.ProjectStatus]int, error)
}

// InterestStore persists student interests.
type InterestStore interface {
	Get(ctx context.Context, studentID, projectID uuid.UUID) (*models.StudentInterest, error)
	Create(ctx context.Context, i *models.StudentInterest) error
	Reactivate(ctx context.Context, i *models.StudentInterest) error
	Deactivate(ctx context.Context, studentID, projectID uuid.UUID) error
	CountActiveByStudent(ctx context.Context, studentID uuid.UUID) (int, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, includeInactive bool) ([]models.StudentInterest, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.InterestedStudent, error)
	CountActive(ctx context.Context) (int, error)
}

// FavoriteStore persists student favorites.
type FavoriteStore interface {
	Create(ctx context.Context, f *models.StudentFavorite) error
	Delete(ctx context.Context, studentID, projectID uuid.UUID) error
	Exists(ctx context.Context, studentID, projectID uuid.UUID) (bool, error)
	CountByStudent(ctx context.Context, studentID uuid.UUID) (int, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.StudentFavorite, error)
	Count(ctx context.Context) (int, error)
}

// AdminStore persists administrator accounts.
type AdminStore interface {
	Create(ctx context.Context, admin *models.AdminUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	SetMFASecret(ctx context.Context, id uuid.UUID, secret string) error
	SetMFAEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
}

// ClientStore persists client accounts.
type ClientStore interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	UpdateProfile(ctx context.Context, client *models.Client) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, filter models.UserFilter) ([]models.Client, int, error)
	Stats(ctx context.Context) (total, active int, err error)
}

// StudentStore persists student accounts.
type StudentStore interface {
	Create(ctx context.Context, s *models.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	UpdateProfile(ctx context.Context, s *models.Student) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, filter models.UserFilter) ([]models.Student, int, error)
	Stats(ctx context.Context) (total, active int, err error)
}

// TokenStore persists issued session tokens.
type TokenStore interface {
	Store(ctx context.Context, t *models.AuthToken) error
	Get(ctx context.Context, token string) (*models.AuthToken, error)
	Touch(ctx context.Context, token string) error
	Remove(ctx context.Context, token string) error
	RemoveForSubject(ctx context.Context, subjectID uuid.UUID, role string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// GalleryStore persists showcase items.
type GalleryStore interface {
	Create(ctx context.Context, g *models.GalleryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error)
	List(ctx context.Context, publishedOnly bool) ([]models.GalleryItem, error)
	Update(ctx context.Context, g *models.GalleryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

// SettingsStore persists config_settings rows.
type SettingsStore interface {
	Get(ctx context.Context, key string) (*models.ConfigSetting, error)
	List(ctx context.Context, publicOnly bool) ([]models.ConfigSetting, error)
	Update(ctx context.Context, values map[string]string, updatedBy *uuid.UUID) error
}

// AuditStore persists audit rows.
type AuditStore interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ErrorLogStore persists error_logs rows.
type ErrorLogStore interface {
	Create(ctx context.Context, entry *models.ErrorLog) error
	List(ctx context.Context, limit, offset int) ([]models.ErrorLog, int, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// AnalyticsStore persists analytics events.
type AnalyticsStore interface {
	Create(ctx context.Context, e *models.AnalyticsEvent) error
	CountByType(ctx context.Context, since time.Time) ([]models.EventTypeCount, error)
	CountByDay(ctx context.Context, since time.Time) ([]models.DailyEventCount, error)
	TopViewedProjects(ctx context.Context, since time.Time, limit int) ([]models.ProjectViews, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Mailer delivers templated notifications. internal/email.Service implements it.
type Mailer interface {
	SendTemplate(ctx context.Context, to string, templateType emailtypes.TemplateType, vars map[string]string) error
}

var (
	_ ProjectStore   = (*repository.ProjectRepository)(nil)
	_ InterestStore  = (*repository.InterestRepository)(nil)
	_ FavoriteStore  = (*repository.FavoriteRepository)(nil)
	_ AdminStore     = (*repository.AdminUserRepository)(nil)
	_ ClientStore    = (*repository.ClientRepository)(nil)
	_ StudentStore   = (*repository.StudentRepository)(nil)
	_ TokenStore     = (*repository.AuthTokenRepository)(nil)
	_ GalleryStore   = (*repository.GalleryRepository)(nil)
	_ SettingsStore  = (*repository.SettingsRepository)(nil)
	_ AuditStore     = (*repository.AuditLogRepository)(nil)
	_ ErrorLogStore  = (*repository.ErrorLogRepository)(nil)
	_ AnalyticsStore = (*repository.AnalyticsRepository)(nil)
)
