package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/capstonehub/backend/internal/models"
	"github.com/capstonehub/backend/internal/testutil"
	emailtypes "github.com/capstonehub/backend/pkg/email"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("client submission starts pending", func(t *testing.T) {
		h := newHarness(t)
		p, err := h.projects.Submit(ctx, h.client, testutil.ValidProjectInput())
		require.NoError(t, err)
		assert.Equal(t, models.ProjectStatusPending, p.Status)
		assert.Equal(t, h.client.ID, p.ClientID)
		assert.Equal(t, "Acme Robotics", p.ClientName)
		assert.Equal(t, []string{models.AuditProjectSubmitted}, h.stores.Audit.Actions())
	})

	t.Run("team size defaults", func(t *testing.T) {
		h := newHarness(t)
		input := testutil.ValidProjectInput()
		input.TeamSize = 0
		p, err := h.projects.Submit(ctx, h.client, input)
		require.NoError(t, err)
		assert.Equal(t, models.DefaultTeamSize, p.TeamSize)
	})

	t.Run("students cannot submit", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.projects.Submit(ctx, h.student, testutil.ValidProjectInput())
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("invalid input", func(t *testing.T) {
		h := newHarness(t)
		input := testutil.ValidProjectInput()
		input.Title = "abc"
		_, err := h.projects.Submit(ctx, h.client, input)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestProjectVisibility(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	pending := h.seedProject(models.ProjectStatusPending)
	approved := h.seedProject(models.ProjectStatusApproved)

	_, err := h.projects.Get(ctx, h.student, pending.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = h.projects.Get(ctx, h.otherClient(t), pending.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	p, err := h.projects.Get(ctx, h.client, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, p.ID)

	_, err = h.projects.Get(ctx, h.admin, pending.ID)
	require.NoError(t, err)

	_, err = h.projects.Get(ctx, h.student, approved.ID)
	require.NoError(t, err)
	assert.Contains(t, h.stores.Analytics.EventTypes(), models.EventProjectView)
}

func TestProjectSearchHidesUnbrowsable(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedProject(models.ProjectStatusPending)
	h.seedProject(models.ProjectStatusRejected)
	approved := h.seedProject(models.ProjectStatusApproved)
	active := h.seedProject(models.ProjectStatusActive)

	projects, total, err := h.projects.Search(ctx, h.student, models.ProjectFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	ids := []uuid.UUID{projects[0].ID, projects[1].ID}
	assert.ElementsMatch(t, []uuid.UUID{approved.ID, active.ID}, ids)

	projects, total, err = h.projects.Search(ctx, h.student, models.ProjectFilter{
		Statuses: []models.ProjectStatus{models.ProjectStatusPending},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, projects)

	_, total, err = h.projects.Search(ctx, h.admin, models.ProjectFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestProjectReview(t *testing.T) {
	ctx := context.Background()

	t.Run("approve notifies owner", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusPending)

		notes := "  looks good  "
		approved, err := h.projects.Approve(ctx, h.admin, p.ID, &notes)
		require.NoError(t, err)
		assert.Equal(t, models.ProjectStatusApproved, approved.Status)
		require.NotNil(t, approved.ReviewedBy)
		assert.Equal(t, h.admin.ID, *approved.ReviewedBy)
		require.NotNil(t, approved.AdminNotes)
		assert.Equal(t, "looks good", *approved.AdminNotes)

		mail, ok := h.mailer.Last()
		require.True(t, ok)
		assert.Equal(t, emailtypes.TemplateProjectApproved, mail.Template)
		assert.Contains(t, h.stores.Audit.Actions(), models.AuditProjectStatusChanged)
	})

	t.Run("reject requires reason", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusPending)

		_, err := h.projects.Reject(ctx, h.admin, p.ID, "   ", nil)
		assert.ErrorIs(t, err, models.ErrInvalidInput)

		_, err = h.projects.Reject(ctx, h.admin, p.ID, strings.Repeat("x", MaxRejectionReasonLength+1), nil)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
		assert.Equal(t, models.ProjectStatusPending, h.projectStatus(t, p.ID))
	})

	t.Run("reject reason limit counts characters", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusPending)

		reason := strings.Repeat("ü", MaxRejectionReasonLength)
		rejected, err := h.projects.Reject(ctx, h.admin, p.ID, reason, nil)
		require.NoError(t, err)
		require.NotNil(t, rejected.RejectionReason)
		assert.Equal(t, reason, *rejected.RejectionReason)
	})

	t.Run("reject stores reason", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusPending)

		rejected, err := h.projects.Reject(ctx, h.admin, p.ID, "Scope too broad", nil)
		require.NoError(t, err)
		assert.Equal(t, models.ProjectStatusRejected, rejected.Status)
		require.NotNil(t, rejected.RejectionReason)
		assert.Equal(t, "Scope too broad", *rejected.RejectionReason)

		mail, ok := h.mailer.Last()
		require.True(t, ok)
		assert.Equal(t, emailtypes.TemplateProjectRejected, mail.Template)
		assert.Equal(t, "Scope too broad", mail.Vars["Reason"])
	})

	t.Run("only admins review", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusPending)
		_, err := h.projects.Approve(ctx, h.client, p.ID, nil)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusApproved)
		_, err := h.projects.Approve(ctx, h.admin, p.ID, nil)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})

	t.Run("mail failure does not fail review", func(t *testing.T) {
		h := newHarness(t)
		h.mailer.SendError = assert.AnError
		p := h.seedProject(models.ProjectStatusPending)
		_, err := h.projects.Approve(ctx, h.admin, p.ID, nil)
		require.NoError(t, err)
	})
}

func TestProjectChangeStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		from    models.ProjectStatus
		to      models.ProjectStatus
		asAdmin bool
		wantErr error
	}{
		{"owner activates approved", models.ProjectStatusApproved, models.ProjectStatusActive, false, nil},
		{"owner pauses active", models.ProjectStatusActive, models.ProjectStatusInactive, false, nil},
		{"owner completes inactive", models.ProjectStatusInactive, models.ProjectStatusCompleted, false, nil},
		{"owner cannot approve", models.ProjectStatusPending, models.ProjectStatusApproved, false, models.ErrForbidden},
		{"owner cannot reopen rejected", models.ProjectStatusRejected, models.ProjectStatusPending, false, models.ErrForbidden},
		{"completed is final", models.ProjectStatusCompleted, models.ProjectStatusActive, true, models.ErrInvalidTransition},
		{"pending cannot jump to active", models.ProjectStatusPending, models.ProjectStatusActive, true, models.ErrInvalidTransition},
		{"admin reopens rejected", models.ProjectStatusRejected, models.ProjectStatusPending, true, nil},
		{"admin approves via status", models.ProjectStatusPending, models.ProjectStatusApproved, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			p := h.seedProject(tt.from)
			actor := h.client
			if tt.asAdmin {
				actor = h.admin
			}

			updated, err := h.projects.ChangeStatus(ctx, actor, p.ID, tt.to, "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, h.projectStatus(t, p.ID))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, updated.Status)
		})
	}

	t.Run("reopening rejected restarts submission", func(t *testing.T) {
		h := newHarness(t)
		p := testutil.NewProject(h.client.ID, models.ProjectStatusRejected)
		reason := "out of scope"
		p.RejectionReason = &reason
		p.SubmittedAt = time.Now().Add(-72 * time.Hour)
		h.stores.Projects.Put(p)

		reopened, err := h.projects.ChangeStatus(ctx, h.admin, p.ID, models.ProjectStatusPending, "")
		require.NoError(t, err)
		assert.Equal(t, models.ProjectStatusPending, reopened.Status)
		assert.Nil(t, reopened.RejectionReason)
		assert.WithinDuration(t, time.Now(), reopened.SubmittedAt, time.Minute)
	})

	t.Run("rejecting via status needs reason", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusPending)
		_, err := h.projects.ChangeStatus(ctx, h.admin, p.ID, models.ProjectStatusRejected, "")
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("unknown status", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusApproved)
		_, err := h.projects.ChangeStatus(ctx, h.admin, p.ID, models.ProjectStatus("archived"), "")
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("students cannot change status", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusApproved)
		_, err := h.projects.ChangeStatus(ctx, h.student, p.ID, models.ProjectStatusActive, "")
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

func TestProjectUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("editing rejected project resubmits it", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusRejected)
		reason := "needs detail"
		p.RejectionReason = &reason
		h.stores.Projects.Put(p)

		updated, err := h.projects.Update(ctx, h.client, p.ID, testutil.ValidProjectInput())
		require.NoError(t, err)
		assert.Equal(t, models.ProjectStatusPending, updated.Status)
		assert.Nil(t, updated.RejectionReason)
		assert.Equal(t, "Campus energy dashboard", updated.Title)
		assert.Equal(t, []string{models.AuditProjectUpdated, models.AuditProjectStatusChanged}, h.stores.Audit.Actions())
	})

	t.Run("owner cannot edit approved project", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusApproved)
		_, err := h.projects.Update(ctx, h.client, p.ID, testutil.ValidProjectInput())
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("admin edits approved project", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusApproved)
		updated, err := h.projects.Update(ctx, h.admin, p.ID, testutil.ValidProjectInput())
		require.NoError(t, err)
		assert.Equal(t, models.ProjectStatusApproved, updated.Status)
	})

	t.Run("admin cannot edit completed project", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusCompleted)
		_, err := h.projects.Update(ctx, h.admin, p.ID, testutil.ValidProjectInput())
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("other client is forbidden", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusPending)
		_, err := h.projects.Update(ctx, h.otherClient(t), p.ID, testutil.ValidProjectInput())
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

func TestProjectDelete(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	approved := h.seedProject(models.ProjectStatusApproved)
	err := h.projects.Delete(ctx, h.client, approved.ID)
	assert.ErrorIs(t, err, models.ErrConflict)

	pending := h.seedProject(models.ProjectStatusPending)
	require.NoError(t, h.projects.Delete(ctx, h.client, pending.ID))
	_, err = h.stores.Projects.GetByID(ctx, pending.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, h.projects.Delete(ctx, h.admin, approved.ID))
	assert.ErrorIs(t, h.projects.Delete(ctx, h.admin, approved.ID), models.ErrNotFound)
}

func TestProjectHistoryAndPending(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p := h.seedProject(models.ProjectStatusPending)

	_, err := h.projects.Approve(ctx, h.admin, p.ID, nil)
	require.NoError(t, err)

	history, err := h.projects.History(ctx, h.client, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.AuditProjectStatusChanged, history[0].Action)

	_, err = h.projects.History(ctx, h.student, p.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	h.seedProject(models.ProjectStatusPending)
	queue, total, err := h.projects.Pending(ctx, h.admin, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, queue, 1)

	_, _, err = h.projects.Pending(ctx, h.client, 10, 0)
	assert.ErrorIs(t, err, models.ErrForbidden)
}
