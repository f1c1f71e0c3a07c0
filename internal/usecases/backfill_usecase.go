package usecases

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/domain/repositories"
	"nft-launchpad.backend/pkg/logger"
)

const DefaultLogBlockSpan uint64 = 5000

// LogReader reads one bounded window of event logs.
type LogReader interface {
	GetBlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

type BackfillOptions struct {
	ScanLimit     int
	LogBlockSpan  uint64
	PersistTokens bool
	FromLogs      bool
}

// CollectionBackfill is the outcome for one seed collection.
type CollectionBackfill struct {
	Address   string `json:"address"`
	Name      string `json:"name,omitempty"`
	Found     int    `json:"found"`
	Persisted int    `json:"persisted"`
	Failed    int    `json:"failedProbes"`
	Error     string `json:"error,omitempty"`
}

type BackfillReport struct {
	Collections []CollectionBackfill `json:"collections"`
	Found       int                  `json:"found"`
	Persisted   int                  `json:"persisted"`
	Errors      int                  `json:"errors"`
}

// BackfillUsecase warms the collection cache and the NFT table for every
// seed collection: the static verified list plus all launch pools.
type BackfillUsecase struct {
	registry     *VerifiedRegistry
	pools        repositories.LaunchPoolRepository
	introspector Introspector
	cache        *CollectionCache
	orchestrator *ScanOrchestrator
	nftRepo      repositories.NFTRepository
	checkpoints  repositories.BackfillCheckpointRepository
	logs         LogReader
	opts         BackfillOptions
}

func NewBackfillUsecase(
	registry *VerifiedRegistry,
	pools repositories.LaunchPoolRepository,
	introspector Introspector,
	collectionCache *CollectionCache,
	orchestrator *ScanOrchestrator,
	nftRepo repositories.NFTRepository,
	checkpoints repositories.BackfillCheckpointRepository,
	logs LogReader,
	opts BackfillOptions,
) *BackfillUsecase {
	if opts.LogBlockSpan == 0 {
		opts.LogBlockSpan = DefaultLogBlockSpan
	}
	return &BackfillUsecase{
		registry:     registry,
		pools:        pools,
		introspector: introspector,
		cache:        collectionCache,
		orchestrator: orchestrator,
		nftRepo:      nftRepo,
		checkpoints:  checkpoints,
		logs:         logs,
		opts:         opts,
	}
}

// Seeds returns the deduplicated seed addresses, static entries first.
func (u *BackfillUsecase) Seeds(ctx context.Context) ([]string, map[string]bool, error) {
	var seeds []string
	launchpad := map[string]bool{}
	seen := map[string]bool{}

	if u.registry != nil {
		for _, e := range u.registry.ordered {
			if !seen[e.Address] {
				seen[e.Address] = true
				seeds = append(seeds, e.Address)
			}
		}
	}
	if u.pools != nil {
		pools, err := u.pools.ListAll(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list launch pools: %w", err)
		}
		for _, p := range pools {
			addr := strings.ToLower(p.ContractAddress)
			launchpad[addr] = true
			if !seen[addr] {
				seen[addr] = true
				seeds = append(seeds, addr)
			}
		}
	}
	return seeds, launchpad, nil
}

// Run backfills every seed. A failing collection is recorded and skipped.
func (u *BackfillUsecase) Run(ctx context.Context) (*BackfillReport, error) {
	seeds, launchpad, err := u.Seeds(ctx)
	if err != nil {
		return nil, err
	}

	report := &BackfillReport{Collections: []CollectionBackfill{}}
	for _, addr := range seeds {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		entry, head, err := u.backfillOne(ctx, addr, launchpad[addr])
		if err != nil {
			entry.Error = err.Error()
			report.Errors++
			logger.Warn(ctx, "collection backfill failed", zap.String("collection", addr), zap.Error(err))
		}
		report.Found += entry.Found
		report.Persisted += entry.Persisted
		report.Collections = append(report.Collections, entry)
		u.saveCheckpoint(ctx, entry, head)
	}

	logger.Info(ctx, "backfill finished",
		zap.Int("collections", len(report.Collections)),
		zap.Int("found", report.Found),
		zap.Int("persisted", report.Persisted),
		zap.Int("errors", report.Errors),
	)
	return report, nil
}

func (u *BackfillUsecase) backfillOne(ctx context.Context, addr string, fromLaunchpad bool) (CollectionBackfill, uint64, error) {
	entry := CollectionBackfill{Address: addr}

	info := u.introspector.Introspect(ctx, addr)
	if info.Unreachable {
		return entry, 0, domainerrors.ErrChainUnavailable
	}
	if !info.Introspectable {
		return entry, 0, domainerrors.ErrCollectionNotIntrospectable
	}

	source := entities.CollectionSourceBlockchain
	if fromLaunchpad {
		source = entities.CollectionSourceLaunchpad
	}
	summary := info.Summary(source)
	entry.Name = summary.Name
	if static, ok := u.registry.Lookup(addr); ok && static.ImageURL != "" {
		summary.ImageURL.SetValid(static.ImageURL)
	}
	u.registry.Annotate(summary, u.orchestrator.activeLaunches(ctx))
	if err := u.cache.Put(ctx, summary); err != nil {
		return entry, 0, err
	}

	if u.opts.FromLogs && u.logs != nil {
		return u.backfillFromLogs(ctx, entry, summary)
	}

	result, err := u.orchestrator.Scan(ctx, entities.ScanRequest{Address: addr, Limit: u.opts.ScanLimit, Summary: summary})
	if err != nil {
		return entry, 0, err
	}
	return entry, 0, u.record(ctx, &entry, result)
}

// backfillFromLogs probes every token id seen in the log window, ScanLimit
// ids at a time. The window head is returned only when no id was skipped,
// otherwise the previous checkpoint stays and the window is read again.
func (u *BackfillUsecase) backfillFromLogs(ctx context.Context, entry CollectionBackfill, summary *entities.CollectionSummary) (CollectionBackfill, uint64, error) {
	ids, head, err := u.tokenIDsFromLogs(ctx, entry.Address)
	if err != nil {
		return entry, 0, err
	}

	chunk := u.orchestrator.normalizeLimit(u.opts.ScanLimit)
	for start := 0; start < len(ids); start += chunk {
		batch := ids[start:min(start+chunk, len(ids))]
		result, err := u.orchestrator.ScanTokenIDs(ctx, summary, batch, len(batch))
		if err != nil {
			return entry, 0, err
		}
		if err := u.record(ctx, &entry, result); err != nil {
			return entry, 0, err
		}
	}
	if entry.Failed > 0 {
		logger.Warn(ctx, "checkpoint held back after failed probes",
			zap.String("collection", entry.Address),
			zap.Int("failed", entry.Failed),
		)
		return entry, 0, nil
	}
	return entry, head, nil
}

func (u *BackfillUsecase) record(ctx context.Context, entry *CollectionBackfill, result *entities.ScanResult) error {
	entry.Found += len(result.NFTs)
	entry.Failed += result.FailedProbes
	if !u.opts.PersistTokens || u.nftRepo == nil {
		return nil
	}
	for _, rec := range result.NFTs {
		if err := u.nftRepo.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("failed to persist nft %s: %w", rec.TokenID, err)
		}
		entry.Persisted++
	}
	return nil
}

// tokenIDsFromLogs reads one window of Transfer logs ending at head and
// returns the distinct token ids, most recently transferred first.
func (u *BackfillUsecase) tokenIDsFromLogs(ctx context.Context, addr string) ([]*big.Int, uint64, error) {
	head, err := u.logs.GetBlockNumber(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domainerrors.ErrChainUnavailable, err)
	}
	from := uint64(0)
	if head+1 > u.opts.LogBlockSpan {
		from = head + 1 - u.opts.LogBlockSpan
	}
	if u.checkpoints != nil {
		if cp, err := u.checkpoints.Get(ctx, addr); err == nil && cp.LastBlock+1 > from && cp.LastBlock < head {
			from = cp.LastBlock + 1
		}
	}

	logs, err := u.logs.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(head),
		Addresses: []common.Address{common.HexToAddress(addr)},
		Topics:    [][]common.Hash{{TransferEventTopic}},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read transfer logs: %w", err)
	}

	seen := map[string]bool{}
	var ids []*big.Int
	for i := len(logs) - 1; i >= 0; i-- {
		l := logs[i]
		// ERC-20 transfers carry the amount in data, not a fourth topic
		if len(l.Topics) < 4 || l.Removed {
			continue
		}
		id := new(big.Int).SetBytes(l.Topics[3].Bytes())
		if seen[id.String()] {
			continue
		}
		seen[id.String()] = true
		ids = append(ids, id)
	}
	return ids, head, nil
}

func (u *BackfillUsecase) saveCheckpoint(ctx context.Context, entry CollectionBackfill, head uint64) {
	if u.checkpoints == nil {
		return
	}
	cp := &entities.BackfillCheckpoint{
		CollectionAddress: entry.Address,
		LastBlock:         head,
		TokensSeen:        entry.Found,
		LastError:         entry.Error,
		UpdatedAt:         time.Now().UTC(),
	}
	if head == 0 {
		if prev, err := u.checkpoints.Get(ctx, entry.Address); err == nil {
			cp.LastBlock = prev.LastBlock
		} else if !errors.Is(err, domainerrors.ErrNotFound) {
			logger.Warn(ctx, "checkpoint read failed", zap.String("collection", entry.Address), zap.Error(err))
		}
	}
	if err := u.checkpoints.Save(ctx, cp); err != nil {
		logger.Warn(ctx, "checkpoint save failed", zap.String("collection", entry.Address), zap.Error(err))
	}
}
