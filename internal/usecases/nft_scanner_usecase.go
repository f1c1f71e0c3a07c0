package usecases

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/domain/repositories"
	"nft-launchpad.backend/pkg/logger"
	"nft-launchpad.backend/pkg/utils"
)

// Scanner actions accepted by GET /nft-scanner.
const (
	ActionScanCollection   = "scan-collection"
	ActionCollectionStats  = "collection-stats"
	ActionUserNFTs         = "user-nfts"
	ActionMarketplaceNFTs  = "marketplace-nfts"
	ActionKnownCollections = "known-collections"
	ActionScanAll          = "scan-all"
)

// NFTScannerUsecase implements the multi-collection scanner actions.
type NFTScannerUsecase struct {
	collections  *CollectionUsecase
	orchestrator *ScanOrchestrator
	registry     *VerifiedRegistry
	marketplace  *MarketplaceReader
	nftRepo      repositories.NFTRepository
}

func NewNFTScannerUsecase(
	collections *CollectionUsecase,
	orchestrator *ScanOrchestrator,
	registry *VerifiedRegistry,
	marketplace *MarketplaceReader,
	nftRepo repositories.NFTRepository,
) *NFTScannerUsecase {
	return &NFTScannerUsecase{
		collections:  collections,
		orchestrator: orchestrator,
		registry:     registry,
		marketplace:  marketplace,
		nftRepo:      nftRepo,
	}
}

func (u *NFTScannerUsecase) ScanCollection(ctx context.Context, in ScanInput) (*entities.ScanResult, error) {
	return u.collections.ScanCollection(ctx, in)
}

func (u *NFTScannerUsecase) CollectionStats(ctx context.Context, address string, limit int) (*entities.CollectionStats, error) {
	result, err := u.collections.ScanCollection(ctx, ScanInput{Address: address, Limit: limit})
	if err != nil {
		return nil, err
	}
	if !result.Introspectable {
		return nil, domainerrors.ErrCollectionNotIntrospectable
	}
	stats := &entities.CollectionStats{Collection: result.Collection, ScannedCount: len(result.NFTs)}
	for _, rec := range result.NFTs {
		if rec.Listing.IsListed {
			stats.ListedCount++
		}
	}
	return stats, nil
}

func (u *NFTScannerUsecase) KnownCollections(ctx context.Context) ([]*entities.CollectionSummary, error) {
	return u.registry.KnownCollections(ctx)
}

// UserNFTs scans every known collection and keeps tokens held by owner.
// Persisted records from earlier backfills fill in tokens the live scan
// window did not reach; a token the live scan saw is never taken from the
// store, whoever owned it when it was persisted.
func (u *NFTScannerUsecase) UserNFTs(ctx context.Context, owner string, limit int) ([]*entities.NFTRecord, error) {
	if !utils.IsValidAddress(owner) {
		return nil, fmt.Errorf("%w: invalid owner address", domainerrors.ErrInvalidInput)
	}
	owner = utils.NormalizeAddress(owner)
	limit = u.orchestrator.normalizeLimit(limit)

	records, err := u.scanKnown(ctx, max(limit, u.orchestrator.Config().DefaultLimit), false)
	if err != nil {
		return nil, err
	}

	seen := map[entities.ListingKey]bool{}
	out := []*entities.NFTRecord{}
	for _, rec := range records {
		seen[nftKey(rec)] = true
		if strings.EqualFold(rec.Owner, owner) {
			out = append(out, rec)
		}
	}

	if u.nftRepo != nil {
		stored, err := u.nftRepo.ListByOwner(ctx, owner, limit)
		if err != nil {
			logger.Warn(ctx, "stored nft lookup failed", zap.Error(err))
		}
		for _, rec := range stored {
			key := nftKey(rec)
			if !seen[key] {
				seen[key] = true
				out = append(out, rec)
			}
		}
	}

	SortRecords(out, u.orchestrator.Config().Sort)
	return capRecords(out, limit), nil
}

// ScanAll scans every known collection and returns one sorted list.
func (u *NFTScannerUsecase) ScanAll(ctx context.Context, limit int, verifiedOnly bool) ([]*entities.NFTRecord, error) {
	records, err := u.scanKnown(ctx, u.orchestrator.normalizeLimit(limit), verifiedOnly)
	if err != nil {
		return nil, err
	}
	SortRecords(records, u.orchestrator.Config().Sort)
	return records, nil
}

// MarketplaceNFTs joins active listings with token metadata, newest listing
// first within the verified and unverified groups.
func (u *NFTScannerUsecase) MarketplaceNFTs(ctx context.Context, limit int) ([]*entities.NFTRecord, error) {
	limit = u.orchestrator.normalizeLimit(limit)
	if !u.marketplace.Configured() {
		return []*entities.NFTRecord{}, nil
	}
	listings, err := u.marketplace.ActiveListings(ctx)
	if err != nil {
		return nil, err
	}

	byCollection := map[string][]*big.Int{}
	var order []string
	for _, l := range listings {
		if _, ok := byCollection[l.NFTContract]; !ok {
			order = append(order, l.NFTContract)
		}
		byCollection[l.NFTContract] = append(byCollection[l.NFTContract], l.TokenID)
	}

	out := []*entities.NFTRecord{}
	for _, addr := range order {
		summary, err := u.collections.GetSummary(ctx, addr, false)
		if err != nil {
			if errors.Is(err, domainerrors.ErrChainUnavailable) || ctx.Err() != nil {
				return nil, err
			}
			logger.Warn(ctx, "listed collection skipped", zap.String("collection", addr), zap.Error(err))
			continue
		}
		ids := byCollection[addr]
		result, err := u.orchestrator.ScanTokenIDs(ctx, summary, ids, len(ids))
		if err != nil {
			return nil, err
		}
		for _, rec := range result.NFTs {
			if rec.Listing.IsListed {
				out = append(out, rec)
			}
		}
	}

	SortRecords(out, entities.SortVerifiedThenRecent)
	return capRecords(out, limit), nil
}

func (u *NFTScannerUsecase) scanKnown(ctx context.Context, perCollection int, verifiedOnly bool) ([]*entities.NFTRecord, error) {
	known, err := u.registry.KnownCollections(ctx)
	if err != nil {
		return nil, err
	}
	out := []*entities.NFTRecord{}
	for _, c := range known {
		result, err := u.collections.ScanCollection(ctx, ScanInput{
			Address:      c.Address,
			Limit:        perCollection,
			VerifiedOnly: verifiedOnly,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn(ctx, "known collection scan failed", zap.String("collection", c.Address), zap.Error(err))
			continue
		}
		out = append(out, result.NFTs...)
	}
	return out, nil
}

func capRecords(records []*entities.NFTRecord, limit int) []*entities.NFTRecord {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}

func nftKey(rec *entities.NFTRecord) entities.ListingKey {
	return entities.ListingKey{Collection: utils.NormalizeAddress(rec.CollectionAddress), TokenID: rec.TokenID}
}
