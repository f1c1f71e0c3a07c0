package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
)

func TestBackfillCheckpointRepository_SaveAndGet(t *testing.T) {
	db := newTestDB(t)
	createBackfillCheckpointTable(t, db)
	repo := NewBackfillCheckpointRepository(db)
	ctx := context.Background()

	_, err := repo.Get(ctx, "0xabc")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	require.NoError(t, repo.Save(ctx, &entities.BackfillCheckpoint{CollectionAddress: "0xABC", LastBlock: 100, TokensSeen: 3, UpdatedAt: time.Now()}))
	require.NoError(t, repo.Save(ctx, &entities.BackfillCheckpoint{CollectionAddress: "0xabc", LastBlock: 250, TokensSeen: 5, LastError: "rpc timeout", UpdatedAt: time.Now()}))

	cp, err := repo.Get(ctx, "0xabc")
	require.NoError(t, err)
	require.Equal(t, uint64(250), cp.LastBlock)
	require.Equal(t, 5, cp.TokensSeen)
	require.Equal(t, "rpc timeout", cp.LastError)
}
