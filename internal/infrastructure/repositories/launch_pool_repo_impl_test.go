package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
)

func TestLaunchPoolRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	createLaunchPoolTable(t, db)
	repo := NewLaunchPoolRepository(db)
	ctx := context.Background()

	pool := &entities.LaunchPool{
		ContractAddress: "0xPOOL1",
		Name:            "Genesis",
		Symbol:          "GEN",
		MaxSupply:       1000,
		MintPrice:       decimal.RequireFromString("0.05"),
		Tags:            []string{"art", "pfp"},
		Status:          entities.LaunchPoolStatusActive,
	}
	require.NoError(t, repo.Create(ctx, pool))
	require.NotEqual(t, uuid.Nil, pool.ID)

	pending := &entities.LaunchPool{ContractAddress: "0xpool2", Name: "Next", Symbol: "NXT", Status: entities.LaunchPoolStatusPending}
	require.NoError(t, repo.Create(ctx, pending))

	err := repo.Create(ctx, &entities.LaunchPool{ContractAddress: "0xpool1", Name: "Dup", Symbol: "D", Status: entities.LaunchPoolStatusPending})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	got, err := repo.GetByID(ctx, pool.ID)
	require.NoError(t, err)
	require.Equal(t, "0xpool1", got.ContractAddress)
	require.True(t, got.MintPrice.Equal(decimal.RequireFromString("0.05")))
	require.Equal(t, []string{"art", "pfp"}, got.Tags)

	byContract, err := repo.GetByContract(ctx, "0xPool1")
	require.NoError(t, err)
	require.Equal(t, pool.ID, byContract.ID)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	status := entities.LaunchPoolStatusPending
	items, total, err := repo.List(ctx, &status, 10, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, items, 1)

	require.NoError(t, repo.UpdateStatus(ctx, pending.ID, entities.LaunchPoolStatusActive))
	active, err = repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)

	require.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), entities.LaunchPoolStatusActive), domainerrors.ErrNotFound)
	require.ErrorIs(t, repo.UpdateStatus(ctx, pool.ID, "PAUSED"), domainerrors.ErrInvalidInput)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
