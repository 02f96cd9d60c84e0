package services

import (
	"context"
	"testing"

	"github.com/capstonehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFavorite(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p := h.seedProject(models.ProjectStatusApproved)

	fav, err := h.favorites.AddFavorite(ctx, h.student, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Title, fav.ProjectTitle)

	_, err = h.favorites.AddFavorite(ctx, h.student, p.ID)
	assert.ErrorIs(t, err, models.ErrDuplicate)

	pending := h.seedProject(models.ProjectStatusPending)
	_, err = h.favorites.AddFavorite(ctx, h.student, pending.ID)
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = h.favorites.AddFavorite(ctx, h.client, p.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestFavoriteLimit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.stores.Settings.Set(models.SettingMaxStudentFavorites, "1")

	first := h.seedProject(models.ProjectStatusApproved)
	second := h.seedProject(models.ProjectStatusActive)

	_, err := h.favorites.AddFavorite(ctx, h.student, first.ID)
	require.NoError(t, err)
	_, err = h.favorites.AddFavorite(ctx, h.student, second.ID)
	assert.ErrorIs(t, err, models.ErrLimitReached)

	require.NoError(t, h.favorites.RemoveFavorite(ctx, h.student, first.ID))
	_, err = h.favorites.AddFavorite(ctx, h.student, second.ID)
	require.NoError(t, err)
}

func TestToggleFavorite(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p := h.seedProject(models.ProjectStatusApproved)

	on, err := h.favorites.ToggleFavorite(ctx, h.student, p.ID)
	require.NoError(t, err)
	assert.True(t, on)

	list, err := h.favorites.ListFavorites(ctx, h.student)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme Robotics", list[0].ClientName)

	on, err = h.favorites.ToggleFavorite(ctx, h.student, p.ID)
	require.NoError(t, err)
	assert.False(t, on)

	list, err = h.favorites.ListFavorites(ctx, h.student)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, h.favorites.RemoveFavorite(ctx, h.student, p.ID), models.ErrNotFound)
}

func TestFavoritesSurviveStatusChange(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p := h.seedProject(models.ProjectStatusActive)

	_, err := h.favorites.AddFavorite(ctx, h.student, p.ID)
	require.NoError(t, err)
	_, err = h.projects.ChangeStatus(ctx, h.client, p.ID, models.ProjectStatusCompleted, "")
	require.NoError(t, err)

	list, err := h.favorites.ListFavorites(ctx, h.student)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.ProjectStatusCompleted, list[0].ProjectStatus)
}
