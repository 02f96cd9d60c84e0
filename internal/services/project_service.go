package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/capstonehub/backend/internal/email"
	"github.com/capstonehub/backend/internal/metrics"
	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/internal/repository"
	"github.com/capstonehub/backend/internal/validation"
	"github.com/capstonehub/backend/pkg/debug"
	emailtypes "github.com/capstonehub/backend/pkg/email"
	"github.com/google/uuid"
)

// MaxRejectionReasonLength bounds the reason stored on a rejected project.
const MaxRejectionReasonLength = 2000

// historyLimit caps the audit rows returned for one project.
const historyLimit = 200

// ownerStatuses are the statuses a client may move its own project between.
var ownerStatuses = map[models.ProjectStatus]bool{
	models.ProjectStatusApproved:  true,
	models.ProjectStatusActive:    true,
	models.ProjectStatusInactive:  true,
	models.ProjectStatusCompleted: true,
}

// ProjectService owns the project lifecycle: submission, edits, review and
// status transitions, plus browsing.
type ProjectService struct {
	projects ProjectStore
	clients  ClientStore
	activity *ActivityService
	mailer   Mailer
	now      func() time.Time
}

// NewProjectService creates a new ProjectService. mailer may be nil.
func NewProjectService(projects ProjectStore, clients ClientStore, activity *ActivityService, mailer Mailer) *ProjectService {
	return &ProjectService{
		projects: projects,
		clients:  clients,
		activity: activity,
		mailer:   mailer,
		now:      time.Now,
	}
}

func isOwner(actor *models.Actor, p *models.Project) bool {
	return actor.Is(models.RoleClient) && actor.ID == p.ClientID
}

// Submit creates a pending project owned by the calling client.
func (s *ProjectService) Submit(ctx context.Context, actor *models.Actor, input *models.ProjectInput) (*models.Project, error) {
	if !actor.Is(models.RoleClient) {
		return nil, fmt.Errorf("only clients can submit projects: %w", models.ErrForbidden)
	}
	if err := validation.ValidateStruct(input); err != nil {
		return nil, err
	}

	p := &models.Project{
		ClientID:    actor.ID,
		Status:      models.ProjectStatusPending,
		SubmittedAt: s.now(),
	}
	input.Apply(p)

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	debug.Info("project %s submitted by client %s", p.ID, actor.ID)
	s.activity.Audit(ctx, actor, models.AuditProjectSubmitted, models.EntityProject, p.ID.String(), map[string]string{
		"title": p.Title,
	})

	return s.projects.GetByID(ctx, p.ID)
}

// Get returns a project. Projects that are not browsable are hidden from
// everyone except their owner and admins.
func (s *ProjectService) Get(ctx context.Context, actor *models.Actor, id uuid.UUID) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Status.IsBrowsable() && !isOwner(actor, p) && !actor.IsAdmin() {
		return nil, fmt.Errorf("project %s: %w", id, models.ErrNotFound)
	}

	if actor.Is(models.RoleStudent) {
		projectID := p.ID
		s.activity.Track(ctx, actor, models.EventProjectView, &projectID, nil)
	}
	return p, nil
}

// Search lists projects. Callers other than admins only ever see browsable
// projects, whatever status filter they pass.
func (s *ProjectService) Search(ctx context.Context, actor *models.Actor, filter models.ProjectFilter) ([]models.Project, int, error) {
	if !actor.IsAdmin() {
		browsable := []models.ProjectStatus{}
		if len(filter.Statuses) == 0 {
			browsable = append(browsable, models.ProjectStatusApproved, models.ProjectStatusActive)
		}
		for _, st := range filter.Statuses {
			if st.IsBrowsable() {
				browsable = append(browsable, st)
			}
		}
		if len(browsable) == 0 {
			return []models.Project{}, 0, nil
		}
		filter.Statuses = browsable
	}

	projects, total, err := s.projects.Search(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if actor.Is(models.RoleStudent) && filter.Search != "" {
		s.activity.Track(ctx, actor, models.EventProjectSearch, nil, map[string]string{"search": filter.Search})
	}
	return projects, total, nil
}

// ListForClient returns every project the calling client owns, in any status.
func (s *ProjectService) ListForClient(ctx context.Context, actor *models.Actor, filter models.ProjectFilter) ([]models.Project, int, error) {
	if !actor.Is(models.RoleClient) {
		return nil, 0, models.ErrForbidden
	}
	clientID := actor.ID
	filter.ClientID = &clientID
	return s.projects.Search(ctx, filter)
}

// Pending returns the review queue, oldest submission first.
func (s *ProjectService) Pending(ctx context.Context, actor *models.Actor, limit, offset int) ([]models.Project, int, error) {
	if !actor.IsAdmin() {
		return nil, 0, models.ErrForbidden
	}
	return s.projects.Search(ctx, models.ProjectFilter{
		Statuses: []models.ProjectStatus{models.ProjectStatusPending},
		Sort:     models.SortOldest,
		Limit:    limit,
		Offset:   offset,
	})
}

// Update edits a project. Owners may edit while pending or rejected; editing
// a rejected project resubmits it. Admins may edit anything not completed.
func (s *ProjectService) Update(ctx context.Context, actor *models.Actor, id uuid.UUID, input *models.ProjectInput) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner := isOwner(actor, p)
	switch {
	case owner:
		if !p.Status.IsOwnerEditable() {
			return nil, fmt.Errorf("project can only be edited while pending or rejected: %w", models.ErrConflict)
		}
	case actor.IsAdmin():
		if p.Status == models.ProjectStatusCompleted {
			return nil, fmt.Errorf("completed projects cannot be edited: %w", models.ErrConflict)
		}
	default:
		return nil, fmt.Errorf("project %s: %w", id, models.ErrForbidden)
	}

	if err := validation.ValidateStruct(input); err != nil {
		return nil, err
	}

	from := p.Status
	input.Apply(p)
	resubmitted := owner && from == models.ProjectStatusRejected
	if resubmitted {
		p.Status = models.ProjectStatusPending
		p.RejectionReason = nil
		p.SubmittedAt = s.now()
	}

	if err := s.projects.Update(ctx, p, from); err != nil {
		return nil, err
	}

	s.activity.Audit(ctx, actor, models.AuditProjectUpdated, models.EntityProject, p.ID.String(), map[string]string{
		"title": p.Title,
	})
	if resubmitted {
		metrics.RecordTransition(string(from), string(p.Status))
		s.activity.Audit(ctx, actor, models.AuditProjectStatusChanged, models.EntityProject, p.ID.String(), statusDetails(from, p.Status, nil))
	}

	return s.projects.GetByID(ctx, p.ID)
}

// Delete removes a project. Owners may only delete pending or rejected
// projects; admins may delete any.
func (s *ProjectService) Delete(ctx context.Context, actor *models.Actor, id uuid.UUID) error {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch {
	case isOwner(actor, p):
		if !p.Status.IsOwnerEditable() {
			return fmt.Errorf("project can only be deleted while pending or rejected: %w", models.ErrConflict)
		}
	case actor.IsAdmin():
	default:
		return fmt.Errorf("project %s: %w", id, models.ErrForbidden)
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	debug.Info("project %s deleted by %s %s", id, actor.Role, actor.ID)
	s.activity.Audit(ctx, actor, models.AuditProjectDeleted, models.EntityProject, id.String(), map[string]string{
		"title":  p.Title,
		"status": string(p.Status),
	})
	return nil
}

// Approve publishes a pending project.
func (s *ProjectService) Approve(ctx context.Context, actor *models.Actor, id uuid.UUID, notes *string) (*models.Project, error) {
	return s.review(ctx, actor, id, models.ProjectStatusApproved, "", notes)
}

// Reject sends a pending project back to its owner with a reason.
func (s *ProjectService) Reject(ctx context.Context, actor *models.Actor, id uuid.UUID, reason string, notes *string) (*models.Project, error) {
	return s.review(ctx, actor, id, models.ProjectStatusRejected, reason, notes)
}

func (s *ProjectService) review(ctx context.Context, actor *models.Actor, id uuid.UUID, to models.ProjectStatus, reason string, notes *string) (*models.Project, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("only admins can review projects: %w", models.ErrForbidden)
	}

	var rejection *string
	if to == models.ProjectStatusRejected {
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return nil, validation.NewFieldError("reason", "A rejection reason is required")
		}
		if utf8.RuneCountInString(reason) > MaxRejectionReasonLength {
			return nil, validation.NewFieldError("reason", fmt.Sprintf("Reason must be at most %d characters", MaxRejectionReasonLength))
		}
		rejection = &reason
	}
	if notes != nil {
		trimmed := strings.TrimSpace(*notes)
		if trimmed == "" {
			notes = nil
		} else {
			notes = &trimmed
		}
	}

	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Status.IsReviewEdge(to) {
		return nil, fmt.Errorf("cannot move project from %s to %s: %w", p.Status, to, models.ErrInvalidTransition)
	}

	reviewer := actor.ID
	err = s.projects.UpdateStatus(ctx, repository.StatusChange{
		ProjectID:       id,
		From:            p.Status,
		To:              to,
		RejectionReason: rejection,
		AdminNotes:      notes,
		ReviewedBy:      &reviewer,
	})
	if err != nil {
		return nil, err
	}

	s.recordTransition(ctx, actor, p, to, rejection)
	s.notifyReview(ctx, p, to, reason)

	return s.projects.GetByID(ctx, id)
}

// ChangeStatus applies a generic transition. Admins may take any allowed
// edge; owners only move between approved, active, inactive and completed.
// Review edges out of pending are routed through Approve/Reject.
func (s *ProjectService) ChangeStatus(ctx context.Context, actor *models.Actor, id uuid.UUID, to models.ProjectStatus, reason string) (*models.Project, error) {
	if !to.IsValid() {
		return nil, fmt.Errorf("unknown status %q: %w", to, models.ErrInvalidInput)
	}

	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner := isOwner(actor, p)
	if !owner && !actor.IsAdmin() {
		return nil, fmt.Errorf("project %s: %w", id, models.ErrForbidden)
	}
	if !p.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("cannot move project from %s to %s: %w", p.Status, to, models.ErrInvalidTransition)
	}
	if !actor.IsAdmin() && !(ownerStatuses[p.Status] && ownerStatuses[to]) {
		return nil, fmt.Errorf("clients cannot move a project from %s to %s: %w", p.Status, to, models.ErrForbidden)
	}

	if p.Status.IsReviewEdge(to) {
		return s.review(ctx, actor, id, to, reason, nil)
	}

	change := repository.StatusChange{
		ProjectID: id,
		From:      p.Status,
		To:        to,
	}
	if p.Status == models.ProjectStatusRejected && to == models.ProjectStatusPending {
		submitted := s.now()
		change.SubmittedAt = &submitted
	}
	err = s.projects.UpdateStatus(ctx, change)
	if err != nil {
		return nil, err
	}

	s.recordTransition(ctx, actor, p, to, nil)
	return s.projects.GetByID(ctx, id)
}

// History returns the audit trail of a project for its owner or an admin.
func (s *ProjectService) History(ctx context.Context, actor *models.Actor, id uuid.UUID) ([]models.AuditLog, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isOwner(actor, p) && !actor.IsAdmin() {
		return nil, fmt.Errorf("project %s: %w", id, models.ErrForbidden)
	}
	entries, err := s.activity.AuditLogs(ctx, models.AuditFilter{
		EntityType: models.EntityProject,
		EntityID:   id.String(),
		Limit:      historyLimit,
	})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.AuditLog{}
	}
	return entries, nil
}

// Counts returns the number of projects per status.
func (s *ProjectService) Counts(ctx context.Context) (map[models.ProjectStatus]int, error) {
	return s.projects.CountByStatus(ctx)
}

func (s *ProjectService) recordTransition(ctx context.Context, actor *models.Actor, p *models.Project, to models.ProjectStatus, reason *string) {
	debug.Info("project %s moved from %s to %s by %s %s", p.ID, p.Status, to, actor.Role, actor.ID)
	metrics.RecordTransition(string(p.Status), string(to))
	s.activity.Audit(ctx, actor, models.AuditProjectStatusChanged, models.EntityProject, p.ID.String(), statusDetails(p.Status, to, reason))
}

func statusDetails(from, to models.ProjectStatus, reason *string) map[string]interface{} {
	details := map[string]interface{}{
		"from": from,
		"to":   to,
	}
	if reason != nil {
		details["reason"] = *reason
	}
	return details
}

// notifyReview emails the owning client. Delivery is best effort.
func (s *ProjectService) notifyReview(ctx context.Context, p *models.Project, to models.ProjectStatus, reason string) {
	if s.mailer == nil {
		return
	}
	client, err := s.clients.GetByID(ctx, p.ClientID)
	if err != nil {
		debug.Warning("cannot notify owner of project %s: %v", p.ID, err)
		return
	}

	templateType := emailtypes.TemplateProjectApproved
	if to == models.ProjectStatusRejected {
		templateType = emailtypes.TemplateProjectRejected
	}
	err = s.mailer.SendTemplate(ctx, client.Email, templateType, map[string]string{
		email.VarRecipientName: client.ContactName,
		email.VarProjectTitle:  p.Title,
		email.VarReason:        reason,
	})
	if err != nil {
		debug.Warning("failed to notify client %s about project %s: %v", client.ID, p.ID, err)
	}
}
