package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/capstonehub/backend/internal/email"
	"github.com/capstonehub/backend/internal/metrics"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/internal/validation"
	"github.com/capstonehub/backend/pkg/debug"
	emailtypes "github.com/capstonehub/backend/pkg/email"
	"github.com/google/uuid"
)

// InterestService manages student interests in projects and enforces the
// per-student limit on active interests.
type InterestService struct {
	interests InterestStore
	projects  ProjectStore
	students  StudentStore
	clients   ClientStore
	settings  *SettingsService
	activity  *ActivityService
	mailer    Mailer
}

// NewInterestService creates a new InterestService. mailer may be nil.
func NewInterestService(interests InterestStore, projects ProjectStore, students StudentStore, clients ClientStore, settings *SettingsService, activity *ActivityService, mailer Mailer) *InterestService {
	return &InterestService{
		interests: interests,
		projects:  projects,
		students:  students,
		clients:   clients,
		settings:  settings,
		activity:  activity,
		mailer:    mailer,
	}
}

// browsableProject loads a project and rejects it unless students can act on it.
func browsableProject(ctx context.Context, projects ProjectStore, id uuid.UUID) (*models.Project, error) {
	p, err := projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Status.IsBrowsable() {
		return nil, fmt.Errorf("project %s is %s: %w", id, p.Status, models.ErrConflict)
	}
	return p, nil
}

// ExpressInterest records or reactivates the student's interest in a
// browsable project.
func (s *InterestService) ExpressInterest(ctx context.Context, actor *models.Actor, projectID uuid.UUID, message *string) (*models.StudentInterest, error) {
	if !actor.Is(models.RoleStudent) {
		return nil, models.ErrForbidden
	}
	if message != nil {
		trimmed := strings.TrimSpace(*message)
		if utf8.RuneCountInString(trimmed) > models.MaxInterestMessageLength {
			return nil, validation.NewFieldError("message", fmt.Sprintf("Message must be at most %d characters", models.MaxInterestMessageLength))
		}
		if trimmed == "" {
			message = nil
		} else {
			message = &trimmed
		}
	}

	p, err := browsableProject(ctx, s.projects, projectID)
	if err != nil {
		metrics.RecordInterestOperation("express", "rejected")
		return nil, err
	}

	existing, err := s.interests.Get(ctx, actor.ID, projectID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsActive {
		metrics.RecordInterestOperation("express", "duplicate")
		return nil, fmt.Errorf("interest in project %s already recorded: %w", projectID, models.ErrConflict)
	}

	settings, err := s.settings.AppSettings(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.interests.CountActiveByStudent(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if active >= settings.MaxStudentInterests {
		metrics.RecordInterestOperation("express", "limit")
		return nil, fmt.Errorf("at most %d active interests are allowed: %w", settings.MaxStudentInterests, models.ErrLimitReached)
	}

	var interest *models.StudentInterest
	if existing != nil {
		existing.Message = message
		if err := s.interests.Reactivate(ctx, existing); err != nil {
			return nil, err
		}
		interest = existing
	} else {
		interest = &models.StudentInterest{
			StudentID: actor.ID,
			ProjectID: projectID,
			Message:   message,
		}
		if err := s.interests.Create(ctx, interest); err != nil {
			return nil, err
		}
	}
	interest.IsActive = true
	interest.ProjectTitle = p.Title
	interest.ProjectStatus = p.Status
	interest.ClientName = p.ClientName

	metrics.RecordInterestOperation("express", "success")
	s.activity.Audit(ctx, actor, models.AuditInterestExpressed, models.EntityInterest, interest.ID.String(), map[string]string{
		"project_id": projectID.String(),
	})
	s.activity.Track(ctx, actor, models.EventInterestExpressed, &projectID, nil)
	s.notifyOwner(ctx, actor, p, message)

	return interest, nil
}

// WithdrawInterest deactivates an active interest. The row is kept.
func (s *InterestService) WithdrawInterest(ctx context.Context, actor *models.Actor, projectID uuid.UUID) error {
	if !actor.Is(models.RoleStudent) {
		return models.ErrForbidden
	}
	existing, err := s.interests.Get(ctx, actor.ID, projectID)
	if err != nil {
		return err
	}
	if !existing.IsActive {
		return fmt.Errorf("interest in project %s already withdrawn: %w", projectID, models.ErrNotFound)
	}
	if err := s.interests.Deactivate(ctx, actor.ID, projectID); err != nil {
		return err
	}
	metrics.RecordInterestOperation("withdraw", "success")
	s.activity.Audit(ctx, actor, models.AuditInterestWithdrawn, models.EntityInterest, existing.ID.String(), map[string]string{
		"project_id": projectID.String(),
	})
	return nil
}

// ListInterests returns the student's interests, newest first.
func (s *InterestService) ListInterests(ctx context.Context, actor *models.Actor, includeInactive bool) ([]models.StudentInterest, error) {
	if !actor.Is(models.RoleStudent) {
		return nil, models.ErrForbidden
	}
	interests, err := s.interests.ListByStudent(ctx, actor.ID, includeInactive)
	if err != nil {
		return nil, err
	}
	if interests == nil {
		interests = []models.StudentInterest{}
	}
	return interests, nil
}

// ProjectInterests lists the students actively interested in a project.
// Only the owning client and admins may see it.
func (s *InterestService) ProjectInterests(ctx context.Context, actor *models.Actor, projectID uuid.UUID) ([]models.InterestedStudent, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !isOwner(actor, p) && !actor.IsAdmin() {
		return nil, fmt.Errorf("project %s: %w", projectID, models.ErrForbidden)
	}
	students, err := s.interests.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []models.InterestedStudent{}
	}
	return students, nil
}

// ActiveCount returns the number of active interests platform-wide.
func (s *InterestService) ActiveCount(ctx context.Context) (int, error) {
	return s.interests.CountActive(ctx)
}

func (s *InterestService) notifyOwner(ctx context.Context, actor *models.Actor, p *models.Project, message *string) {
	if s.mailer == nil {
		return
	}
	client, err := s.clients.GetByID(ctx, p.ClientID)
	if err != nil {
		debug.Warning("cannot notify owner of project %s: %v", p.ID, err)
		return
	}
	student, err := s.students.GetByID(ctx, actor.ID)
	if err != nil {
		debug.Warning("cannot load student %s for notification: %v", actor.ID, err)
		return
	}

	vars := map[string]string{
		email.VarRecipientName: client.ContactName,
		email.VarProjectTitle:  p.Title,
		email.VarStudentName:   student.FullName(),
		email.VarStudentEmail:  student.Email,
	}
	if message != nil {
		vars[email.VarMessage] = *message
	}
	if err := s.mailer.SendTemplate(ctx, client.Email, emailtypes.TemplateInterestReceived, vars); err != nil {
		debug.Warning("failed to notify client %s about interest in %s: %v", client.ID, p.ID, err)
	}
}
