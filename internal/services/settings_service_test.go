package services

import (
	"context"
	"strings"
	"testing"

	"github.com/capstonehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppSettingsDecode(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	settings, err := h.settings.AppSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAppSettings(), settings)

	h.stores.Settings.Set(models.SettingMaxStudentInterests, "7")
	h.stores.Settings.Set(models.SettingRegistrationOpen, "false")
	settings, err = h.settings.AppSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, settings.MaxStudentInterests)
	assert.False(t, settings.RegistrationOpen)
}

func TestAppSettingsFallsBackOnBadValue(t *testing.T) {
	h := newHarness(t)
	h.stores.Settings.Set(models.SettingMaxStudentInterests, "lots")

	settings, err := h.settings.AppSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAppSettings(), settings)
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		values  map[string]string
		wantErr error
		want    map[string]string
	}{
		{"integer", map[string]string{models.SettingMaxStudentInterests: " 8 "}, nil, map[string]string{models.SettingMaxStudentInterests: "8"}},
		{"boolean canonical", map[string]string{models.SettingRegistrationOpen: "FALSE"}, nil, map[string]string{models.SettingRegistrationOpen: "false"}},
		{"several at once", map[string]string{models.SettingSiteName: "Capstone", models.SettingMaxStudentFavorites: "3"}, nil,
			map[string]string{models.SettingSiteName: "Capstone", models.SettingMaxStudentFavorites: "3"}},
		{"zero retention allowed", map[string]string{models.SettingErrorLogRetentionDays: "0"}, nil, map[string]string{models.SettingErrorLogRetentionDays: "0"}},
		{"limit below one", map[string]string{models.SettingMaxStudentInterests: "0"}, models.ErrInvalidInput, nil},
		{"negative", map[string]string{models.SettingAuditRetentionDays: "-1"}, models.ErrInvalidInput, nil},
		{"not a number", map[string]string{models.SettingMaxStudentFavorites: "ten"}, models.ErrInvalidInput, nil},
		{"not a boolean", map[string]string{models.SettingRegistrationOpen: "maybe"}, models.ErrInvalidInput, nil},
		{"empty string", map[string]string{models.SettingSiteName: "  "}, models.ErrInvalidInput, nil},
		{"long string", map[string]string{models.SettingSiteName: strings.Repeat("x", 501)}, models.ErrInvalidInput, nil},
		{"unknown key", map[string]string{"theme": "dark"}, models.ErrNotFound, nil},
		{"empty", map[string]string{}, models.ErrInvalidInput, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.settings.Update(ctx, h.admin, tt.values)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, h.stores.Audit.Actions())
				return
			}
			require.NoError(t, err)
			for key, want := range tt.want {
				row, err := h.stores.Settings.Get(ctx, key)
				require.NoError(t, err)
				assert.Equal(t, want, row.Value)
				require.NotNil(t, row.UpdatedBy)
				assert.Equal(t, h.admin.ID, *row.UpdatedBy)
			}
			assert.Len(t, h.stores.Audit.Actions(), len(tt.want))
		})
	}
}

func TestUpdateSettingsAdminOnly(t *testing.T) {
	h := newHarness(t)
	_, err := h.settings.Update(context.Background(), h.client, map[string]string{models.SettingSiteName: "x"})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpdateSettingsIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.settings.Update(ctx, h.admin, map[string]string{
		models.SettingSiteName:            "Renamed",
		models.SettingMaxStudentInterests: "-3",
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	row, err := h.stores.Settings.Get(ctx, models.SettingSiteName)
	require.NoError(t, err)
	assert.Equal(t, "Capstone Hub", row.Value)
}

func TestListPublicSettings(t *testing.T) {
	h := newHarness(t)
	settings, err := h.settings.List(context.Background(), true)
	require.NoError(t, err)
	for _, s := range settings {
		assert.True(t, s.IsPublic, s.Key)
	}
	assert.Len(t, settings, 4)
}

func TestLimitChangeAppliesImmediately(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p := h.seedProject(models.ProjectStatusApproved)

	_, err := h.settings.Update(ctx, h.admin, map[string]string{models.SettingMaxStudentInterests: "1"})
	require.NoError(t, err)
	_, err = h.interests.ExpressInterest(ctx, h.student, p.ID, nil)
	require.NoError(t, err)

	other := h.seedProject(models.ProjectStatusApproved)
	_, err = h.interests.ExpressInterest(ctx, h.student, other.ID, nil)
	assert.ErrorIs(t, err, models.ErrLimitReached)
}
