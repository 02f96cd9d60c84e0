package services

import (
	"context"
	"testing"

	"github.com/capstonehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGalleryCreateFromProject(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	done := h.seedProject(models.ProjectStatusCompleted)

	item, err := h.gallery.Create(ctx, h.admin, &models.GalleryInput{ProjectID: &done.ID})
	require.NoError(t, err)
	assert.Equal(t, done.Title, item.Title)
	require.NotNil(t, item.ClientName)
	assert.Equal(t, "Acme Robotics", *item.ClientName)
	assert.True(t, item.IsPublished)
	assert.Equal(t, []string{}, item.TeamMembers)

	active := h.seedProject(models.ProjectStatusActive)
	_, err = h.gallery.Create(ctx, h.admin, &models.GalleryInput{ProjectID: &active.ID})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = h.gallery.Create(ctx, h.admin, &models.GalleryInput{Description: "no title"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = h.gallery.Create(ctx, h.client, &models.GalleryInput{Title: "x"})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestGalleryVisibility(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	hidden := false

	published, err := h.gallery.Create(ctx, h.admin, &models.GalleryInput{Title: "Solar car"})
	require.NoError(t, err)
	draft, err := h.gallery.Create(ctx, h.admin, &models.GalleryInput{Title: "Draft", IsPublished: &hidden})
	require.NoError(t, err)

	items, err := h.gallery.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, published.ID, items[0].ID)

	items, err = h.gallery.List(ctx, h.admin)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = h.gallery.Get(ctx, h.student, draft.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = h.gallery.Get(ctx, h.admin, draft.ID)
	require.NoError(t, err)
}

func TestGalleryUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	item, err := h.gallery.Create(ctx, h.admin, &models.GalleryInput{Title: "Old"})
	require.NoError(t, err)

	updated, err := h.gallery.Update(ctx, h.admin, item.ID, &models.GalleryInput{Title: "New", IsFeatured: true, DisplayOrder: 2})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.True(t, updated.IsFeatured)
	assert.True(t, updated.IsPublished, "publish flag is kept when omitted")

	require.NoError(t, h.gallery.Delete(ctx, h.admin, item.ID))
	assert.ErrorIs(t, h.gallery.Delete(ctx, h.admin, item.ID), models.ErrNotFound)

	assert.Equal(t, []string{
		models.AuditGalleryCreated,
		models.AuditGalleryUpdated,
		models.AuditGalleryDeleted,
	}, h.stores.Audit.Actions())
}
