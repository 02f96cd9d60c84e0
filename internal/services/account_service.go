package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/capstonehub/backend/internal/email"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/internal/validation"
	"github.com/capstonehub/backend/pkg/debug"
	emailtypes "github.com/capstonehub/backend/pkg/email"
	"github.com/google/uuid"
)

// AccountService manages student and client profiles and the admin
// account listings.
type AccountService struct {
	clients  ClientStore
	students StudentStore
	tokens   TokenStore
	activity *ActivityService
	mailer   Mailer
}

// NewAccountService creates a new AccountService. mailer may be nil.
func NewAccountService(clients ClientStore, students StudentStore, tokens TokenStore, activity *ActivityService, mailer Mailer) *AccountService {
	return &AccountService{
		clients:  clients,
		students: students,
		tokens:   tokens,
		activity: activity,
		mailer:   mailer,
	}
}

// StudentProfile returns the calling student's profile.
func (s *AccountService) StudentProfile(ctx context.Context, actor *models.Actor) (*models.Student, error) {
	if !actor.Is(models.RoleStudent) {
		return nil, models.ErrForbidden
	}
	return s.students.GetByID(ctx, actor.ID)
}

// UpdateStudentProfile edits the calling student's profile. Email and
// student number cannot change.
func (s *AccountService) UpdateStudentProfile(ctx context.Context, actor *models.Actor, upd *models.StudentProfileUpdate) (*models.Student, error) {
	if !actor.Is(models.RoleStudent) {
		return nil, models.ErrForbidden
	}
	if err := validation.ValidateStruct(upd); err != nil {
		return nil, err
	}
	student, err := s.students.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	student.FirstName = strings.TrimSpace(upd.FirstName)
	student.LastName = strings.TrimSpace(upd.LastName)
	student.Major = upd.Major
	student.GraduationYear = upd.GraduationYear
	student.Skills = upd.Skills
	if student.Skills == nil {
		student.Skills = []string{}
	}
	student.Bio = upd.Bio

	if err := s.students.UpdateProfile(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// ClientProfile returns the calling client's profile.
func (s *AccountService) ClientProfile(ctx context.Context, actor *models.Actor) (*models.Client, error) {
	if !actor.Is(models.RoleClient) {
		return nil, models.ErrForbidden
	}
	return s.clients.GetByID(ctx, actor.ID)
}

// UpdateClientProfile edits the calling client's profile. Email cannot change.
func (s *AccountService) UpdateClientProfile(ctx context.Context, actor *models.Actor, upd *models.ClientProfileUpdate) (*models.Client, error) {
	if !actor.Is(models.RoleClient) {
		return nil, models.ErrForbidden
	}
	if err := validation.ValidateStruct(upd); err != nil {
		return nil, err
	}
	client, err := s.clients.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	client.OrganizationName = strings.TrimSpace(upd.OrganizationName)
	client.ContactName = strings.TrimSpace(upd.ContactName)
	client.Phone = upd.Phone
	client.Website = upd.Website
	client.Industry = upd.Industry
	client.Description = upd.Description

	if err := s.clients.UpdateProfile(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// ListStudents pages through students for admins.
func (s *AccountService) ListStudents(ctx context.Context, actor *models.Actor, filter models.UserFilter) ([]models.Student, int, error) {
	if !actor.IsAdmin() {
		return nil, 0, models.ErrForbidden
	}
	return s.students.List(ctx, filter)
}

// ListClients pages through clients for admins.
func (s *AccountService) ListClients(ctx context.Context, actor *models.Actor, filter models.UserFilter) ([]models.Client, int, error) {
	if !actor.IsAdmin() {
		return nil, 0, models.ErrForbidden
	}
	return s.clients.List(ctx, filter)
}

// SetStudentActive activates or deactivates a student. Deactivation revokes
// every stored session of the account.
func (s *AccountService) SetStudentActive(ctx context.Context, actor *models.Actor, id uuid.UUID, active bool) (*models.Student, error) {
	if !actor.IsAdmin() {
		return nil, models.ErrForbidden
	}
	if err := s.students.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.afterStatusChange(ctx, actor, models.RoleStudent, models.EntityStudent, id, active, student.Email, student.FullName())
	return student, nil
}

// SetClientActive activates or deactivates a client. Deactivation revokes
// every stored session of the account.
func (s *AccountService) SetClientActive(ctx context.Context, actor *models.Actor, id uuid.UUID, active bool) (*models.Client, error) {
	if !actor.IsAdmin() {
		return nil, models.ErrForbidden
	}
	if err := s.clients.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.afterStatusChange(ctx, actor, models.RoleClient, models.EntityClient, id, active, client.Email, client.ContactName)
	return client, nil
}

func (s *AccountService) afterStatusChange(ctx context.Context, actor *models.Actor, role, entity string, id uuid.UUID, active bool, address, name string) {
	if !active {
		revoked, err := s.tokens.RemoveForSubject(ctx, id, role)
		if err != nil {
			debug.Error("failed to revoke sessions of %s %s: %v", role, id, err)
		} else {
			debug.Info("revoked %d sessions of deactivated %s %s", revoked, role, id)
		}
	}

	s.activity.Audit(ctx, actor, models.AuditAccountStatusChanged, entity, id.String(), map[string]interface{}{
		"is_active": active,
	})

	if s.mailer == nil {
		return
	}
	status := "inactive"
	if active {
		status = "active"
	}
	err := s.mailer.SendTemplate(ctx, address, emailtypes.TemplateAccountStatus, map[string]string{
		email.VarRecipientName: name,
		email.VarStatus:        status,
	})
	if err != nil {
		debug.Warning("failed to notify %s %s of status change: %v", role, id, err)
	}
}

// Stats returns account totals for the admin dashboard.
func (s *AccountService) Stats(ctx context.Context) (students, activeStudents, clients, activeClients int, err error) {
	students, activeStudents, err = s.students.Stats(ctx)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to count students: %w", err)
	}
	clients, activeClients, err = s.clients.Stats(ctx)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return students, activeStudents, clients, activeClients, nil
}
