package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylie-ai/stylist-platform/internal/apperr"
	"github.com/stylie-ai/stylist-platform/internal/model"
)

func TestProfileUpsertRequiresEmail(t *testing.T) {
	h := newHarness(t)

	_, err := h.profiles.Upsert(context.Background(), "u1", "", &model.Profile{Name: "Asha"})
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidInput(err))
}

func TestProfileUpsertPrefersTokenEmail(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	saved, err := h.profiles.Upsert(ctx, "u1", "token@example.com", &model.Profile{Email: "body@example.com", BodyType: "athletic"})
	require.NoError(t, err)
	assert.Equal(t, "token@example.com", saved.Email)
	assert.Equal(t, "u1", saved.UserID)

	_, err = h.profiles.Upsert(ctx, "u1", "", &model.Profile{Email: "body@example.com", SkinTone: "tan"})
	require.NoError(t, err)

	got, err := h.profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "athletic", got.BodyType)
	assert.Equal(t, "tan", got.SkinTone)
	assert.Equal(t, "body@example.com", got.Email)
}

func TestProfileCacheIsInvalidatedOnWrite(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seedProfile(t, "u1", &model.Profile{Email: "a@b.c", Region: "IN"})

	got, err := h.profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "IN", got.Region)

	// A write that bypasses the service is not visible until the entry expires.
	h.seedProfile(t, "u1", &model.Profile{Region: "UK"})
	got, err = h.profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "IN", got.Region)

	_, err = h.profiles.Upsert(ctx, "u1", "a@b.c", &model.Profile{Region: "US"})
	require.NoError(t, err)
	got, err = h.profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "US", got.Region)
}

func TestWardrobeAddValidates(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := NewWardrobeService(newWardrobeStore(h), nopLogger())

	_, err := svc.Add(ctx, "u1", model.WardrobeItem{Name: "Linen shirt"})
	assert.True(t, apperr.IsInvalidInput(err))

	item, err := svc.Add(ctx, "u1", model.WardrobeItem{Name: " Linen shirt ", Category: "tops"})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Linen shirt", item.Name)

	items, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, svc.Delete(ctx, "u1", item.ID))
	items, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}
