package usecases

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"nft-launchpad.backend/internal/domain/entities"
	"nft-launchpad.backend/internal/domain/repositories"
	"nft-launchpad.backend/pkg/logger"
)

type ClearCacheResult struct {
	CollectionsDeleted int64 `json:"collectionsDeleted"`
	ScanKeysDeleted    int   `json:"scanKeysDeleted"`
}

type CleanupResult struct {
	Collections        []string `json:"collections"`
	CollectionsDeleted int64    `json:"collectionsDeleted"`
	NFTsDeleted        int64    `json:"nftsDeleted"`
}

// AdminUsecase holds the cache maintenance operations.
type AdminUsecase struct {
	uow         repositories.UnitOfWork
	cacheRepo   repositories.CollectionCacheRepository
	nftRepo     repositories.NFTRepository
	scanStore   ScanResultStore
	registry    *VerifiedRegistry
	collections *CollectionUsecase
}

func NewAdminUsecase(
	uow repositories.UnitOfWork,
	cacheRepo repositories.CollectionCacheRepository,
	nftRepo repositories.NFTRepository,
	scanStore ScanResultStore,
	registry *VerifiedRegistry,
	collections *CollectionUsecase,
) *AdminUsecase {
	return &AdminUsecase{
		uow:         uow,
		cacheRepo:   cacheRepo,
		nftRepo:     nftRepo,
		scanStore:   scanStore,
		registry:    registry,
		collections: collections,
	}
}

// ClearCache drops every cached collection summary and every cached scan.
func (u *AdminUsecase) ClearCache(ctx context.Context) (*ClearCacheResult, error) {
	deleted, err := u.cacheRepo.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to clear collection cache: %w", err)
	}
	res := &ClearCacheResult{CollectionsDeleted: deleted}
	if u.scanStore != nil {
		n, err := u.scanStore.Flush(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to flush scan cache: %w", err)
		}
		res.ScanKeysDeleted = n
	}
	logger.Info(ctx, "collection cache cleared",
		zap.Int64("collections", res.CollectionsDeleted),
		zap.Int("scan_keys", res.ScanKeysDeleted),
	)
	return res, nil
}

// CleanupUnverified removes cached summaries and stored NFTs of collections
// that are neither statically verified nor active launches, atomically.
func (u *AdminUsecase) CleanupUnverified(ctx context.Context) (*CleanupResult, error) {
	cached, err := u.cacheRepo.ListAddresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached collections: %w", err)
	}
	stored, err := u.nftRepo.ListCollectionAddresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored collections: %w", err)
	}
	active, err := u.registry.ActiveLaunches(ctx)
	if err != nil {
		return nil, err
	}

	var targets []string
	for _, addr := range append(cached, stored...) {
		if u.registry.IsStaticallyVerified(addr) {
			continue
		}
		if _, ok := active[addr]; ok {
			continue
		}
		if !slices.Contains(targets, addr) {
			targets = append(targets, addr)
		}
	}
	slices.Sort(targets)

	res := &CleanupResult{Collections: targets}
	if len(targets) == 0 {
		res.Collections = []string{}
		return res, nil
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		nfts, err := u.nftRepo.DeleteByCollections(txCtx, targets)
		if err != nil {
			return err
		}
		cols, err := u.cacheRepo.DeleteByAddresses(txCtx, targets)
		if err != nil {
			return err
		}
		res.NFTsDeleted = nfts
		res.CollectionsDeleted = cols
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clean up unverified collections: %w", err)
	}

	if u.scanStore != nil {
		if _, err := u.scanStore.Flush(ctx); err != nil {
			logger.Warn(ctx, "scan cache flush after cleanup failed", zap.Error(err))
		}
	}
	logger.Info(ctx, "unverified collections removed",
		zap.Int("collections", len(targets)),
		zap.Int64("nfts", res.NFTsDeleted),
	)
	return res, nil
}

// RefreshCollection re-introspects a collection and rewrites its cache row.
func (u *AdminUsecase) RefreshCollection(ctx context.Context, address string) (*entities.CollectionSummary, error) {
	return u.collections.GetSummary(ctx, address, true)
}

// ListCached returns every cached summary, for the admin CLI.
func (u *AdminUsecase) ListCached(ctx context.Context) ([]*entities.CollectionSummary, error) {
	items, _, err := u.cacheRepo.List(ctx, entities.CollectionFilter{})
	return items, err
}
