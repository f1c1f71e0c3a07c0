package usecases

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/infrastructure/metrics"
	"nft-launchpad.backend/pkg/logger"
	"nft-launchpad.backend/pkg/utils"
)

// Introspector, Prober and Resolver are the per-collection and per-token
// reads a scan composes.
type Introspector interface {
	Introspect(ctx context.Context, address string) entities.CollectionInfo
}

type Prober interface {
	Probe(ctx context.Context, collection string, tokenID *big.Int) entities.ProbeResult
	TokenURI(ctx context.Context, collection string, tokenID *big.Int) string
}

type Resolver interface {
	Resolve(ctx context.Context, tokenURI string) *entities.TokenMetadata
}

// ListingLookup returns the marketplace state of listed tokens.
type ListingLookup interface {
	Listings(ctx context.Context) (map[entities.ListingKey]entities.Listing, error)
}

type ScanConfig struct {
	DefaultLimit     int
	ProbeCap         int
	ProbeFactor      int
	Concurrency      int
	Window           entities.WindowPolicy
	Sort             entities.SortPolicy
	PlaceholderImage string
}

func (c ScanConfig) withDefaults() ScanConfig {
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 20
	}
	if c.ProbeCap <= 0 {
		c.ProbeCap = 100
	}
	if c.ProbeFactor <= 0 {
		c.ProbeFactor = 2
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	if !c.Window.IsValid() {
		c.Window = entities.WindowRecent
	}
	if !c.Sort.IsValid() {
		c.Sort = entities.SortVerifiedThenTokenID
	}
	if c.PlaceholderImage == "" {
		c.PlaceholderImage = "/placeholder.svg"
	}
	return c
}

// ScanOrchestrator discovers the existing tokens of one collection and
// turns them into NFT records.
type ScanOrchestrator struct {
	introspector Introspector
	prober       Prober
	resolver     Resolver
	registry     *VerifiedRegistry
	listings     ListingLookup
	cfg          ScanConfig
	metrics      *metrics.Metrics
}

func NewScanOrchestrator(
	introspector Introspector,
	prober Prober,
	resolver Resolver,
	registry *VerifiedRegistry,
	listings ListingLookup,
	cfg ScanConfig,
	m *metrics.Metrics,
) *ScanOrchestrator {
	return &ScanOrchestrator{
		introspector: introspector,
		prober:       prober,
		resolver:     resolver,
		registry:     registry,
		listings:     listings,
		cfg:          cfg.withDefaults(),
		metrics:      m,
	}
}

func (o *ScanOrchestrator) Config() ScanConfig {
	return o.cfg
}

// Scan probes candidate token ids until Limit tokens are found or the window
// is exhausted. Per-token failures are skipped and counted. A collection
// that cannot be introspected yields an empty, non-introspectable result.
func (o *ScanOrchestrator) Scan(ctx context.Context, req entities.ScanRequest) (*entities.ScanResult, error) {
	start := time.Now()
	result, err := o.scan(ctx, req)
	switch {
	case err != nil:
		o.metrics.ObserveScan("error", time.Since(start))
	case !result.Introspectable:
		o.metrics.ObserveScan("not_introspectable", time.Since(start))
	default:
		o.metrics.ObserveScan("ok", time.Since(start))
	}
	return result, err
}

func (o *ScanOrchestrator) scan(ctx context.Context, req entities.ScanRequest) (*entities.ScanResult, error) {
	if !utils.IsValidAddress(req.Address) {
		return nil, fmt.Errorf("%w: invalid collection address %q", domainerrors.ErrInvalidInput, req.Address)
	}
	address := utils.NormalizeAddress(req.Address)
	limit := o.normalizeLimit(req.Limit)
	window := req.Window
	if !window.IsValid() {
		window = o.cfg.Window
	}
	sortPolicy := req.Sort
	if !sortPolicy.IsValid() {
		sortPolicy = o.cfg.Sort
	}

	summary := req.Summary
	supplyKnown := summary != nil && summary.TotalSupply > 0
	if summary == nil {
		info := o.introspector.Introspect(ctx, address)
		if info.Unreachable {
			return nil, fmt.Errorf("%w: collection %s", domainerrors.ErrChainUnavailable, address)
		}
		if !info.Introspectable {
			return &entities.ScanResult{
				NFTs:    []*entities.NFTRecord{},
				Message: NotIntrospectableMessage,
			}, nil
		}
		summary = info.Summary(entities.CollectionSourceBlockchain)
		supplyKnown = info.SupplyKnown && info.TotalSupply > 0
	}
	summary.Address = address

	o.registry.Annotate(summary, o.activeLaunches(ctx))

	result := &entities.ScanResult{
		Collection:     summary,
		NFTs:           []*entities.NFTRecord{},
		Introspectable: true,
	}
	if req.VerifiedOnly && !summary.Verified {
		return result, nil
	}

	next := o.candidateWindow(summary.TotalSupply, supplyKnown, limit, window)
	if err := o.collect(ctx, summary, next, limit, result); err != nil {
		return nil, err
	}

	o.applyListings(ctx, result.NFTs)
	SortRecords(result.NFTs, sortPolicy)
	return result, nil
}

// ScanTokenIDs probes an explicit id list, used when ids were learned from
// Transfer logs instead of a supply window.
func (o *ScanOrchestrator) ScanTokenIDs(ctx context.Context, summary *entities.CollectionSummary, ids []*big.Int, limit int) (*entities.ScanResult, error) {
	if summary == nil {
		return nil, fmt.Errorf("%w: summary required", domainerrors.ErrInvalidInput)
	}
	summary.Address = utils.NormalizeAddress(summary.Address)
	o.registry.Annotate(summary, o.activeLaunches(ctx))

	result := &entities.ScanResult{
		Collection:     summary,
		NFTs:           []*entities.NFTRecord{},
		Introspectable: true,
	}
	i := 0
	next := func() (*big.Int, bool) {
		if i >= len(ids) {
			return nil, false
		}
		i++
		return ids[i-1], true
	}
	if err := o.collect(ctx, summary, next, o.normalizeLimit(limit), result); err != nil {
		return nil, err
	}
	o.applyListings(ctx, result.NFTs)
	SortRecords(result.NFTs, o.cfg.Sort)
	return result, nil
}

func (o *ScanOrchestrator) normalizeLimit(limit int) int {
	if limit <= 0 {
		return o.cfg.DefaultLimit
	}
	return min(limit, MaxScanLimit)
}

// candidateWindow yields token ids in probe order. With a known supply S the
// window is the limit most recent ids plus id S, so collections numbered from
// 1 are found too: recent walks S down to max(0,S-limit), ascending walks 0 up
// to min(S,limit). Either way at most limit+1 ids are probed. With an unknown
// supply it probes 0..min(cap, limit*factor)-1.
func (o *ScanOrchestrator) candidateWindow(supply uint64, supplyKnown bool, limit int, window entities.WindowPolicy) func() (*big.Int, bool) {
	if !supplyKnown {
		return ascendingIDs(0, uint64(min(o.cfg.ProbeCap, limit*o.cfg.ProbeFactor)))
	}

	span := uint64(limit)
	if window == entities.WindowAscending {
		return ascendingIDs(0, min(supply, span)+1)
	}

	lo := uint64(0)
	if supply > span {
		lo = supply - span
	}
	id := supply
	done := false
	return func() (*big.Int, bool) {
		if done {
			return nil, false
		}
		out := new(big.Int).SetUint64(id)
		if id == lo {
			done = true
		} else {
			id--
		}
		return out, true
	}
}

// ascendingIDs yields from, from+1, ... while fewer than n ids were produced.
func ascendingIDs(from, n uint64) func() (*big.Int, bool) {
	var i uint64
	return func() (*big.Int, bool) {
		if i >= n {
			return nil, false
		}
		i++
		return new(big.Int).SetUint64(from + i - 1), true
	}
}

type tokenOutcome struct {
	probe  entities.ProbeResult
	record *entities.NFTRecord
}

// collect probes ids in batches of cfg.Concurrency. Each batch is consumed
// in candidate order, so the selected tokens do not depend on concurrency.
func (o *ScanOrchestrator) collect(
	ctx context.Context,
	summary *entities.CollectionSummary,
	next func() (*big.Int, bool),
	limit int,
	result *entities.ScanResult,
) error {
	batchSize := o.cfg.Concurrency
	for len(result.NFTs) < limit {
		batch := make([]*big.Int, 0, batchSize)
		for len(batch) < batchSize {
			id, ok := next()
			if !ok {
				break
			}
			batch = append(batch, id)
		}
		if len(batch) == 0 {
			return nil
		}

		outcomes := make([]tokenOutcome, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(batchSize)
		for i, id := range batch {
			g.Go(func() error {
				outcomes[i] = o.processToken(gctx, summary, id)
				return nil
			})
		}
		_ = g.Wait()
		if err := ctx.Err(); err != nil {
			return err
		}

		for _, out := range outcomes {
			result.Scanned++
			switch out.probe.Outcome {
			case entities.ProbeFailed:
				result.FailedProbes++
				logger.Warn(ctx, "token probe failed",
					zap.String("collection", summary.Address),
					zap.String("token_id", out.probe.TokenID.String()),
					zap.Error(out.probe.Err),
				)
			case entities.ProbeExists:
				if len(result.NFTs) < limit {
					result.NFTs = append(result.NFTs, out.record)
				}
			}
		}
	}
	return nil
}

func (o *ScanOrchestrator) processToken(ctx context.Context, summary *entities.CollectionSummary, id *big.Int) tokenOutcome {
	probe := o.prober.Probe(ctx, summary.Address, id)
	if probe.Outcome != entities.ProbeExists {
		return tokenOutcome{probe: probe}
	}

	uri := o.prober.TokenURI(ctx, summary.Address, id)
	var meta *entities.TokenMetadata
	if uri != "" {
		meta = o.resolver.Resolve(ctx, uri)
	}
	return tokenOutcome{probe: probe, record: o.buildRecord(summary, id, probe.Owner, uri, meta)}
}

func (o *ScanOrchestrator) buildRecord(summary *entities.CollectionSummary, id *big.Int, owner, uri string, meta *entities.TokenMetadata) *entities.NFTRecord {
	rec := &entities.NFTRecord{
		CollectionAddress:  summary.Address,
		CollectionName:     summary.Name,
		TokenID:            id.String(),
		Owner:              owner,
		Name:               fmt.Sprintf("%s #%s", summary.Name, id.String()),
		Image:              o.cfg.PlaceholderImage,
		Attributes:         []entities.NFTAttribute{},
		TokenURI:           uri,
		Verified:           summary.Verified,
		StaticallyVerified: summary.StaticallyVerified,
		ActiveLaunch:       summary.ActiveLaunch,
		UpdatedAt:          time.Now().UTC(),
	}
	if meta == nil {
		return rec
	}
	if strings.TrimSpace(meta.Name) != "" {
		rec.Name = meta.Name
	}
	if meta.Image != "" {
		rec.Image = meta.Image
	}
	rec.Description = meta.Description
	if meta.Attributes != nil {
		rec.Attributes = meta.Attributes
	}
	return rec
}

func (o *ScanOrchestrator) activeLaunches(ctx context.Context) map[string]*entities.LaunchPool {
	active, err := o.registry.ActiveLaunches(ctx)
	if err != nil {
		logger.Warn(ctx, "active launch lookup failed, continuing without launch flags", zap.Error(err))
		return map[string]*entities.LaunchPool{}
	}
	return active
}

// applyListings is best effort; a marketplace failure leaves records unlisted.
func (o *ScanOrchestrator) applyListings(ctx context.Context, records []*entities.NFTRecord) {
	if o.listings == nil || len(records) == 0 {
		return
	}
	listings, err := o.listings.Listings(ctx)
	if err != nil {
		logger.Warn(ctx, "marketplace listing lookup failed", zap.Error(err))
		return
	}
	for _, rec := range records {
		if l, ok := listings[entities.ListingKey{Collection: rec.CollectionAddress, TokenID: rec.TokenID}]; ok {
			rec.Listing = l
		}
	}
}
