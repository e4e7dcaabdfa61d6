package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "dayzone/internal/errors"
	"dayzone/internal/model"
	"dayzone/internal/testutil"
)

func TestWantedRepository_CRUD(t *testing.T) {
	repo := NewWantedRepository(testutil.OpenInMemoryDB(t))
	ctx := context.Background()

	w := &model.Wanted{
		Callsign: "Traitor",
		FullName: "Izmennik",
		FaceID:   "W002",
		Role:     model.RoleNeutral,
		Reward:   decimal.RequireFromString("25000.50"),
		LastSeen: "100 Rads bar",
		Reason:   "artifact theft",
	}
	require.NoError(t, repo.Create(ctx, w))

	got, err := repo.FindByID(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, w.Reward.Equal(got.Reward))

	dup, err := repo.FindByFaceID(ctx, "W002", 0)
	require.NoError(t, err)
	require.NotNil(t, dup)

	dup, err = repo.FindByFaceID(ctx, "W002", w.ID)
	require.NoError(t, err)
	assert.Nil(t, dup)

	err = repo.Create(ctx, &model.Wanted{Callsign: "Other", FullName: "X", FaceID: "W002", Role: model.RoleBandit, Reward: decimal.Zero, LastSeen: "x", Reason: "y"})
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	found, err := repo.List(ctx, WantedFilter{SearchBy: "callsign", Search: "trait"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, repo.Delete(ctx, w.ID))
	err = repo.Delete(ctx, w.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
