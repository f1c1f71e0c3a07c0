package usecases

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"go.uber.org/zap"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/domain/repositories"
	"nft-launchpad.backend/internal/infrastructure/cache"
	"nft-launchpad.backend/pkg/logger"
	"nft-launchpad.backend/pkg/utils"
)

// ScanResultStore is the short-lived response cache in front of live scans.
type ScanResultStore interface {
	Get(ctx context.Context, key string) (*entities.ScanResult, error)
	Set(ctx context.Context, key string, result *entities.ScanResult) error
	Flush(ctx context.Context) (int, error)
}

// ScanInput is one collection scan as requested over HTTP.
type ScanInput struct {
	Address      string
	Limit        int
	Window       entities.WindowPolicy
	VerifiedOnly bool
	Persist      bool
}

// CollectionUsecase serves collection summaries cache-first and runs scans
// on top of them.
type CollectionUsecase struct {
	cache        *CollectionCache
	introspector Introspector
	orchestrator *ScanOrchestrator
	registry     *VerifiedRegistry
	nftRepo      repositories.NFTRepository
	scanStore    ScanResultStore
}

func NewCollectionUsecase(
	collectionCache *CollectionCache,
	introspector Introspector,
	orchestrator *ScanOrchestrator,
	registry *VerifiedRegistry,
	nftRepo repositories.NFTRepository,
	scanStore ScanResultStore,
) *CollectionUsecase {
	return &CollectionUsecase{
		cache:        collectionCache,
		introspector: introspector,
		orchestrator: orchestrator,
		registry:     registry,
		nftRepo:      nftRepo,
		scanStore:    scanStore,
	}
}

// GetSummary returns the fresh cached summary, or introspects the contract
// and caches the result. refresh skips the cache read.
func (u *CollectionUsecase) GetSummary(ctx context.Context, address string, refresh bool) (*entities.CollectionSummary, error) {
	if !utils.IsValidAddress(address) {
		return nil, fmt.Errorf("%w: invalid collection address", domainerrors.ErrInvalidInput)
	}
	address = utils.NormalizeAddress(address)

	if !refresh {
		cached, ok, err := u.cache.Get(ctx, address)
		if err != nil {
			return nil, err
		}
		if ok {
			u.annotate(ctx, cached)
			return cached, nil
		}
	}

	info := u.introspector.Introspect(ctx, address)
	if info.Unreachable {
		return nil, fmt.Errorf("%w: collection %s", domainerrors.ErrChainUnavailable, address)
	}
	if !info.Introspectable {
		return nil, domainerrors.ErrCollectionNotIntrospectable
	}

	summary := info.Summary(entities.CollectionSourceBlockchain)
	u.annotate(ctx, summary)
	if static, ok := u.registry.Lookup(address); ok && static.ImageURL != "" && !summary.ImageURL.Valid {
		summary.ImageURL.SetValid(static.ImageURL)
	}
	if err := u.cache.Put(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// ListCollections pages through cached summaries.
func (u *CollectionUsecase) ListCollections(ctx context.Context, filter entities.CollectionFilter) ([]*entities.CollectionSummary, int64, error) {
	items, total, err := u.cache.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	active := u.orchestrator.activeLaunches(ctx)
	for _, s := range items {
		u.registry.Annotate(s, active)
	}
	return items, total, nil
}

// ScanCollection runs a cache-first scan. A collection that cannot be
// introspected yields a result with Introspectable=false, not an error.
func (u *CollectionUsecase) ScanCollection(ctx context.Context, in ScanInput) (*entities.ScanResult, error) {
	if !utils.IsValidAddress(in.Address) {
		return nil, fmt.Errorf("%w: invalid collection address", domainerrors.ErrInvalidInput)
	}
	address := utils.NormalizeAddress(in.Address)
	limit := u.orchestrator.normalizeLimit(in.Limit)
	window := in.Window
	if !window.IsValid() {
		window = u.orchestrator.Config().Window
	}

	key := cache.ScanKey(address, limit, window, in.VerifiedOnly)
	if u.scanStore != nil && !in.Persist {
		hit, err := u.scanStore.Get(ctx, key)
		if err != nil {
			logger.Warn(ctx, "scan cache read failed", zap.Error(err))
		} else if hit != nil {
			return hit, nil
		}
	}

	summary, err := u.GetSummary(ctx, address, false)
	if err != nil {
		if errors.Is(err, domainerrors.ErrCollectionNotIntrospectable) {
			return &entities.ScanResult{NFTs: []*entities.NFTRecord{}, Message: NotIntrospectableMessage}, nil
		}
		return nil, err
	}

	result, err := u.orchestrator.Scan(ctx, entities.ScanRequest{
		Address:      address,
		Limit:        limit,
		VerifiedOnly: in.VerifiedOnly,
		Window:       window,
		Summary:      summary,
	})
	if err != nil {
		return nil, err
	}

	if in.Persist {
		if err := u.persist(ctx, result.NFTs); err != nil {
			return nil, err
		}
	}
	if u.scanStore != nil {
		if err := u.scanStore.Set(ctx, key, result); err != nil {
			logger.Warn(ctx, "scan cache write failed", zap.Error(err))
		}
	}
	return result, nil
}

// Preview returns the compact token list shown on collection cards.
func (u *CollectionUsecase) Preview(ctx context.Context, address string, count int) ([]entities.PreviewItem, *entities.CollectionSummary, error) {
	if count <= 0 {
		count = DefaultPreviewCount
	}
	result, err := u.ScanCollection(ctx, ScanInput{Address: address, Limit: count})
	if err != nil {
		return nil, nil, err
	}
	if !result.Introspectable {
		return nil, nil, domainerrors.ErrCollectionNotIntrospectable
	}
	items := make([]entities.PreviewItem, 0, len(result.NFTs))
	for _, rec := range result.NFTs {
		items = append(items, entities.PreviewItem{TokenID: rec.TokenID, Image: rec.Image, Name: rec.Name})
	}
	return items, result.Collection, nil
}

// GetNFT probes a single token. When the chain is unreachable a persisted
// record is served instead.
func (u *CollectionUsecase) GetNFT(ctx context.Context, address, rawTokenID string) (*entities.NFTRecord, error) {
	if !utils.IsValidAddress(address) {
		return nil, fmt.Errorf("%w: invalid collection address", domainerrors.ErrInvalidInput)
	}
	tokenID, err := utils.ParseTokenID(rawTokenID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrInvalidInput, err)
	}
	address = utils.NormalizeAddress(address)

	summary, err := u.GetSummary(ctx, address, false)
	if err != nil {
		if errors.Is(err, domainerrors.ErrChainUnavailable) && u.nftRepo != nil {
			if stored, repoErr := u.nftRepo.GetByToken(ctx, address, tokenID.String()); repoErr == nil {
				return stored, nil
			}
		}
		return nil, err
	}

	result, err := u.orchestrator.ScanTokenIDs(ctx, summary, []*big.Int{tokenID}, 1)
	if err != nil {
		return nil, err
	}
	if len(result.NFTs) == 0 {
		if result.FailedProbes > 0 {
			return nil, fmt.Errorf("%w: token %s", domainerrors.ErrProbeFailed, tokenID.String())
		}
		return nil, fmt.Errorf("%w: token %s", domainerrors.ErrNotFound, tokenID.String())
	}
	return result.NFTs[0], nil
}

func (u *CollectionUsecase) persist(ctx context.Context, records []*entities.NFTRecord) error {
	if u.nftRepo == nil {
		return nil
	}
	for _, rec := range records {
		if err := u.nftRepo.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("failed to persist nft %s/%s: %w", rec.CollectionAddress, rec.TokenID, err)
		}
	}
	return nil
}

func (u *CollectionUsecase) annotate(ctx context.Context, s *entities.CollectionSummary) {
	u.registry.Annotate(s, u.orchestrator.activeLaunches(ctx))
}
