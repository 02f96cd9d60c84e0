package services

import (
	"context"
	"testing"

	"github.com/capstonehub/backend/internal/models"
	emailtypes "github.com/capstonehub/backend/pkg/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStudentProfile(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	before, err := h.accounts.StudentProfile(ctx, h.student)
	require.NoError(t, err)

	year := 2027
	updated, err := h.accounts.UpdateStudentProfile(ctx, h.student, &models.StudentProfileUpdate{
		FirstName:      " Ada ",
		LastName:       "King",
		GraduationYear: &year,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, []string{}, updated.Skills)

	reloaded, err := h.accounts.StudentProfile(ctx, h.student)
	require.NoError(t, err)
	assert.Equal(t, before.Email, reloaded.Email)
	assert.Equal(t, before.StudentNumber, reloaded.StudentNumber)
	assert.Equal(t, 2027, *reloaded.GraduationYear)

	_, err = h.accounts.UpdateStudentProfile(ctx, h.client, &models.StudentProfileUpdate{FirstName: "x", LastName: "y"})
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = h.accounts.UpdateStudentProfile(ctx, h.student, &models.StudentProfileUpdate{LastName: "y"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestUpdateClientProfile(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	website := "https://initech.test"
	updated, err := h.accounts.UpdateClientProfile(ctx, h.client, &models.ClientProfileUpdate{
		OrganizationName: "Initech",
		ContactName:      "Bill Lumbergh",
		Website:          &website,
	})
	require.NoError(t, err)
	assert.Equal(t, "Initech", updated.OrganizationName)

	bad := "not a url"
	_, err = h.accounts.UpdateClientProfile(ctx, h.client, &models.ClientProfileUpdate{
		OrganizationName: "Initech",
		ContactName:      "Bill",
		Website:          &bad,
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestSetAccountActive(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	client, err := h.accounts.SetClientActive(ctx, h.admin, h.client.ID, false)
	require.NoError(t, err)
	assert.False(t, client.IsActive)

	mail, ok := h.mailer.Last()
	require.True(t, ok)
	assert.Equal(t, emailtypes.TemplateAccountStatus, mail.Template)
	assert.Equal(t, "inactive", mail.Vars["Status"])
	assert.Equal(t, []string{models.AuditAccountStatusChanged}, h.stores.Audit.Actions())

	_, err = h.accounts.SetStudentActive(ctx, h.client, h.student.ID, false)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = h.accounts.SetStudentActive(ctx, h.admin, h.client.ID, false)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListAccounts(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.newStudent(t)
	_, err := h.accounts.SetStudentActive(ctx, h.admin, h.student.ID, false)
	require.NoError(t, err)

	all, total, err := h.accounts.ListStudents(ctx, h.admin, models.UserFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, all, 2)

	active := true
	_, total, err = h.accounts.ListStudents(ctx, h.admin, models.UserFilter{IsActive: &active, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, _, err = h.accounts.ListClients(ctx, h.student, models.UserFilter{})
	assert.ErrorIs(t, err, models.ErrForbidden)
}
