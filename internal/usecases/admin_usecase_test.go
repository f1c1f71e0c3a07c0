package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"nft-launchpad.backend/internal/domain/entities"
)

const (
	strayCollection = "0x00000000000000000000000000000000000abc03"
	orphanNFTs      = "0x00000000000000000000000000000000000abc04"
)

func newAdminFixture(t *testing.T) (*AdminUsecase, *collectionFixture, *MockUnitOfWork) {
	t.Helper()
	registry := NewVerifiedRegistry([]VerifiedInfo{{Address: collectionAddr, Name: "Static"}},
		stubActiveLaunches{pools: []*entities.LaunchPool{{ContractAddress: secondCollection}}})
	f := newCollectionFixture(t, erc721Chain(collectionAddr, "Static", 3, nil), registry)
	uow := new(MockUnitOfWork)
	var store ScanResultStore
	if f.scanStore != nil {
		store = f.scanStore
	}
	return NewAdminUsecase(uow, f.repo, f.nfts, store, registry, f.uc), f, uow
}

func seedAdminState(t *testing.T, f *collectionFixture) {
	t.Helper()
	ctx := context.Background()
	for _, addr := range []string{collectionAddr, secondCollection, strayCollection} {
		require.NoError(t, f.repo.Upsert(ctx, &entities.CollectionSummary{Address: addr, UpdatedAt: time.Now()}))
	}
	require.NoError(t, f.nfts.Upsert(ctx, &entities.NFTRecord{CollectionAddress: strayCollection, TokenID: "1"}))
	require.NoError(t, f.nfts.Upsert(ctx, &entities.NFTRecord{CollectionAddress: orphanNFTs, TokenID: "1"}))
	require.NoError(t, f.nfts.Upsert(ctx, &entities.NFTRecord{CollectionAddress: orphanNFTs, TokenID: "2"}))
	require.NoError(t, f.nfts.Upsert(ctx, &entities.NFTRecord{CollectionAddress: collectionAddr, TokenID: "1"}))
}

func TestAdminUsecase_CleanupUnverified(t *testing.T) {
	uc, f, uow := newAdminFixture(t)
	seedAdminState(t, f)
	uow.On("Do", mock.Anything, mock.Anything).Return().Once()

	res, err := uc.CleanupUnverified(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{strayCollection, orphanNFTs}, res.Collections)
	assert.Equal(t, int64(1), res.CollectionsDeleted)
	assert.Equal(t, int64(3), res.NFTsDeleted)

	// static and active-launch collections survive
	assert.Len(t, f.repo.rows, 2)
	_, ok := f.repo.rows[secondCollection]
	assert.True(t, ok)
	_, err = f.nfts.GetByToken(context.Background(), collectionAddr, "1")
	assert.NoError(t, err)
	uow.AssertExpectations(t)
}

func TestAdminUsecase_CleanupNothingToDo(t *testing.T) {
	uc, f, uow := newAdminFixture(t)
	require.NoError(t, f.repo.Upsert(context.Background(), &entities.CollectionSummary{Address: collectionAddr}))

	res, err := uc.CleanupUnverified(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Collections)
	assert.NotNil(t, res.Collections)
	uow.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
}

func TestAdminUsecase_ClearCache(t *testing.T) {
	uc, f, _ := newAdminFixture(t)
	seedAdminState(t, f)
	ctx := context.Background()

	if f.scanStore != nil {
		_, err := f.uc.ScanCollection(ctx, ScanInput{Address: collectionAddr, Limit: 5})
		require.NoError(t, err)
	}

	res, err := uc.ClearCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.CollectionsDeleted)
	if f.scanStore != nil {
		assert.Equal(t, 1, res.ScanKeysDeleted)
	}
	assert.Empty(t, f.repo.rows)
}

func TestAdminUsecase_RefreshAndListCached(t *testing.T) {
	uc, f, _ := newAdminFixture(t)
	ctx := context.Background()

	s, err := uc.RefreshCollection(ctx, collectionAddr)
	require.NoError(t, err)
	assert.Equal(t, "Static", s.Name)
	assert.Equal(t, 1, f.chain.callCount("name"))

	_, err = uc.RefreshCollection(ctx, collectionAddr)
	require.NoError(t, err)
	assert.Equal(t, 2, f.chain.callCount("name"))

	items, err := uc.ListCached(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, collectionAddr, items[0].Address)
}
