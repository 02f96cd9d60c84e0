package services

import (
	"context"
	"strings"
	"testing"

	"github.com/capstonehub/backend/internal/models"
	emailtypes "github.com/capstonehub/backend/pkg/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpressInterest(t *testing.T) {
	ctx := context.Background()

	t.Run("records interest and notifies owner", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusApproved)
		msg := "  I built a similar robot  "

		interest, err := h.interests.ExpressInterest(ctx, h.student, p.ID, &msg)
		require.NoError(t, err)
		assert.True(t, interest.IsActive)
		require.NotNil(t, interest.Message)
		assert.Equal(t, "I built a similar robot", *interest.Message)
		assert.Equal(t, p.Title, interest.ProjectTitle)

		mail, ok := h.mailer.Last()
		require.True(t, ok)
		assert.Equal(t, emailtypes.TemplateInterestReceived, mail.Template)
		assert.Equal(t, "Grace Hopper", mail.Vars["StudentName"])
		assert.Contains(t, h.stores.Analytics.EventTypes(), models.EventInterestExpressed)
	})

	t.Run("duplicate active interest conflicts", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusActive)
		_, err := h.interests.ExpressInterest(ctx, h.student, p.ID, nil)
		require.NoError(t, err)
		_, err = h.interests.ExpressInterest(ctx, h.student, p.ID, nil)
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("project must be browsable", func(t *testing.T) {
		h := newHarness(t)
		for _, status := range []models.ProjectStatus{
			models.ProjectStatusPending,
			models.ProjectStatusRejected,
			models.ProjectStatusInactive,
			models.ProjectStatusCompleted,
		} {
			p := h.seedProject(status)
			_, err := h.interests.ExpressInterest(ctx, h.student, p.ID, nil)
			assert.ErrorIs(t, err, models.ErrConflict, string(status))
		}
	})

	t.Run("message too long", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusApproved)
		msg := strings.Repeat("a", models.MaxInterestMessageLength+1)
		_, err := h.interests.ExpressInterest(ctx, h.student, p.ID, &msg)
		assert.ErrorIs(t, err, models.ErrInvalidInput)

		accented := strings.Repeat("é", models.MaxInterestMessageLength+1)
		_, err = h.interests.ExpressInterest(ctx, h.student, p.ID, &accented)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("message limit counts characters", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusApproved)
		msg := strings.Repeat("é", models.MaxInterestMessageLength)
		interest, err := h.interests.ExpressInterest(ctx, h.student, p.ID, &msg)
		require.NoError(t, err)
		require.NotNil(t, interest.Message)
		assert.Equal(t, msg, *interest.Message)
	})

	t.Run("only students", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusApproved)
		_, err := h.interests.ExpressInterest(ctx, h.client, p.ID, nil)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("unknown project", func(t *testing.T) {
		h := newHarness(t)
		p := h.seedProject(models.ProjectStatusApproved)
		require.NoError(t, h.stores.Projects.Delete(ctx, p.ID))
		_, err := h.interests.ExpressInterest(ctx, h.student, p.ID, nil)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestInterestLimit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.stores.Settings.Set(models.SettingMaxStudentInterests, "2")

	first := h.seedProject(models.ProjectStatusApproved)
	second := h.seedProject(models.ProjectStatusApproved)
	third := h.seedProject(models.ProjectStatusApproved)

	_, err := h.interests.ExpressInterest(ctx, h.student, first.ID, nil)
	require.NoError(t, err)
	_, err = h.interests.ExpressInterest(ctx, h.student, second.ID, nil)
	require.NoError(t, err)

	_, err = h.interests.ExpressInterest(ctx, h.student, third.ID, nil)
	assert.ErrorIs(t, err, models.ErrLimitReached)

	// Withdrawing frees a slot.
	require.NoError(t, h.interests.WithdrawInterest(ctx, h.student, first.ID))
	_, err = h.interests.ExpressInterest(ctx, h.student, third.ID, nil)
	require.NoError(t, err)

	// The limit is per student.
	other := h.newStudent(t)
	_, err = h.interests.ExpressInterest(ctx, other, first.ID, nil)
	require.NoError(t, err)
}

func TestWithdrawAndReactivate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p := h.seedProject(models.ProjectStatusApproved)

	created, err := h.interests.ExpressInterest(ctx, h.student, p.ID, nil)
	require.NoError(t, err)

	require.NoError(t, h.interests.WithdrawInterest(ctx, h.student, p.ID))
	assert.ErrorIs(t, h.interests.WithdrawInterest(ctx, h.student, p.ID), models.ErrNotFound)

	active, err := h.interests.ListInterests(ctx, h.student, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := h.interests.ListInterests(ctx, h.student, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)

	msg := "still keen"
	again, err := h.interests.ExpressInterest(ctx, h.student, p.ID, &msg)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID, "withdrawn row is reused")
	assert.True(t, again.IsActive)

	assert.Equal(t, []string{
		models.AuditInterestExpressed,
		models.AuditInterestWithdrawn,
		models.AuditInterestExpressed,
	}, h.stores.Audit.Actions())
}

func TestWithdrawUnknownInterest(t *testing.T) {
	h := newHarness(t)
	p := h.seedProject(models.ProjectStatusApproved)
	err := h.interests.WithdrawInterest(context.Background(), h.student, p.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProjectInterests(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p := h.seedProject(models.ProjectStatusApproved)

	_, err := h.interests.ExpressInterest(ctx, h.student, p.ID, nil)
	require.NoError(t, err)
	withdrawn := h.newStudent(t)
	_, err = h.interests.ExpressInterest(ctx, withdrawn, p.ID, nil)
	require.NoError(t, err)
	require.NoError(t, h.interests.WithdrawInterest(ctx, withdrawn, p.ID))

	students, err := h.interests.ProjectInterests(ctx, h.client, p.ID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, h.student.ID, students[0].StudentID)

	_, err = h.interests.ProjectInterests(ctx, h.admin, p.ID)
	require.NoError(t, err)

	_, err = h.interests.ProjectInterests(ctx, h.otherClient(t), p.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
	_, err = h.interests.ProjectInterests(ctx, h.student, p.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	fetched, err := h.stores.Projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.InterestCount)
}
