// Package admin serves the administrator endpoints under /api/admin.
package admin

import (
	"context"

	"github.com/capstonehub/backend/internal/models"
	"github.com/google/uuid"
)

// DashboardService builds the dashboard summary.
type DashboardService interface {
	Stats(ctx context.Context, actor *models.Actor) (*models.DashboardStats, error)
}

// ReviewService is the review part of services.ProjectService.
type ReviewService interface {
	Pending(ctx context.Context, actor *models.Actor, limit, offset int) ([]models.Project, int, error)
	Approve(ctx context.Context, actor *models.Actor, id uuid.UUID, notes *string) (*models.Project, error)
	Reject(ctx context.Context, actor *models.Actor, id uuid.UUID, reason string, notes *string) (*models.Project, error)
}

// AccountService is the account management part of services.AccountService.
type AccountService interface {
	ListStudents(ctx context.Context, actor *models.Actor, filter models.UserFilter) ([]models.Student, int, error)
	ListClients(ctx context.Context, actor *models.Actor, filter models.UserFilter) ([]models.Client, int, error)
	SetStudentActive(ctx context.Context, actor *models.Actor, id uuid.UUID, active bool) (*models.Student, error)
	SetClientActive(ctx context.Context, actor *models.Actor, id uuid.UUID, active bool) (*models.Client, error)
}

// ActivityService reads the audit, error and analytics logs.
type ActivityService interface {
	AuditLogs(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
	ErrorLogs(ctx context.Context, limit, offset int) ([]models.ErrorLog, int, error)
	Summary(ctx context.Context, days int) (*models.AnalyticsSummary, error)
}

// SettingsService reads and writes config_settings.
type SettingsService interface {
	List(ctx context.Context, publicOnly bool) ([]models.ConfigSetting, error)
	Update(ctx context.Context, actor *models.Actor, values map[string]string) ([]models.ConfigSetting, error)
}

// Handler serves /api/admin. Every route is mounted behind AdminOnly.
type Handler struct {
	dashboard DashboardService
	projects  ReviewService
	accounts  AccountService
	activity  ActivityService
	settings  SettingsService
}

// NewHandler creates a new admin handler.
func NewHandler(dashboard DashboardService, projects ReviewService, accounts AccountService, activity ActivityService, settings SettingsService) *Handler {
	return &Handler{
		dashboard: dashboard,
		projects:  projects,
		accounts:  accounts,
		activity:  activity,
		settings:  settings,
	}
}
