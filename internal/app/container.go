package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"nft-launchpad.backend/internal/config"
	"nft-launchpad.backend/internal/domain/entities"
	"nft-launchpad.backend/internal/infrastructure/cache"
	"nft-launchpad.backend/internal/infrastructure/metrics"
	"nft-launchpad.backend/internal/infrastructure/repositories"
	"nft-launchpad.backend/internal/usecases"
)

// Chain is everything the use cases read from the node.
type Chain interface {
	usecases.ChainReader
	usecases.LogReader
}

// Container holds the use cases shared by the server and the CLI tools.
type Container struct {
	Registry    *usecases.VerifiedRegistry
	Collections *usecases.CollectionUsecase
	Scanner     *usecases.NFTScannerUsecase
	Marketplace *usecases.MarketplaceUsecase
	LaunchPools *usecases.LaunchPoolUsecase
	Waitlist    *usecases.WaitlistUsecase
	Admin       *usecases.AdminUsecase
	Backfill    *usecases.BackfillUsecase
}

// Build wires repositories, caches and use cases. rdb may be nil, in which
// case scans are not cached in Redis.
func Build(cfg *config.Config, db *gorm.DB, rdb *goredis.Client, chain Chain, m *metrics.Metrics) (*Container, error) {
	scanCfg, err := ScanConfigFrom(cfg)
	if err != nil {
		return nil, err
	}

	launchPoolRepo := repositories.NewLaunchPoolRepository(db)
	collectionCacheRepo := repositories.NewCollectionCacheRepository(db)
	nftRepo := repositories.NewNFTRepository(db)
	waitlistRepo := repositories.NewWaitlistRepository(db)
	checkpointRepo := repositories.NewBackfillCheckpointRepository(db)
	uow := repositories.NewUnitOfWork(db)

	registry, err := usecases.LoadVerifiedRegistry(cfg.Registry.VerifiedCollectionsFile, launchPoolRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load verified registry: %w", err)
	}

	var scanStore usecases.ScanResultStore
	if rdb != nil {
		scanStore = cache.NewScanResultCache(rdb, cfg.Redis.ScanCacheTTL)
	}

	introspector := usecases.NewCollectionIntrospector(chain)
	prober := usecases.NewTokenProber(chain, cfg.Scanner.CollapseProbeFailures, m)
	resolver := usecases.NewMetadataResolver(cfg.IPFS.GatewayURL, cfg.IPFS.FetchTimeout, m)
	marketReader := usecases.NewMarketplaceReader(chain, cfg.Blockchain.MarketplaceAddress, cfg.Blockchain.ListingScanCap)
	orchestrator := usecases.NewScanOrchestrator(introspector, prober, resolver, registry, marketReader, scanCfg, m)
	collectionCache := usecases.NewCollectionCache(collectionCacheRepo, cfg.Cache.CollectionTTL, m)

	collections := usecases.NewCollectionUsecase(collectionCache, introspector, orchestrator, registry, nftRepo, scanStore)

	return &Container{
		Registry:    registry,
		Collections: collections,
		Scanner:     usecases.NewNFTScannerUsecase(collections, orchestrator, registry, marketReader, nftRepo),
		Marketplace: usecases.NewMarketplaceUsecase(marketReader),
		LaunchPools: usecases.NewLaunchPoolUsecase(launchPoolRepo, cfg.Blockchain.LaunchpadAddress),
		Waitlist:    usecases.NewWaitlistUsecase(waitlistRepo),
		Admin:       usecases.NewAdminUsecase(uow, collectionCacheRepo, nftRepo, scanStore, registry, collections),
		Backfill: usecases.NewBackfillUsecase(
			registry, launchPoolRepo, introspector, collectionCache, orchestrator, nftRepo, checkpointRepo, chain,
			usecases.BackfillOptions{
				ScanLimit:     cfg.Backfill.ScanLimit,
				LogBlockSpan:  cfg.Backfill.LogBlockSpan,
				PersistTokens: cfg.Backfill.PersistTokens,
				FromLogs:      cfg.Backfill.FromLogs,
			},
		),
	}, nil
}

// ScanConfigFrom validates the scanner policies named in cfg.
func ScanConfigFrom(cfg *config.Config) (usecases.ScanConfig, error) {
	window, err := entities.ParseWindowPolicy(cfg.Scanner.WindowPolicy, entities.WindowRecent)
	if err != nil {
		return usecases.ScanConfig{}, err
	}
	sortPolicy := entities.SortVerifiedThenTokenID
	if cfg.Scanner.SortPolicy != "" {
		sortPolicy = entities.SortPolicy(cfg.Scanner.SortPolicy)
		if !sortPolicy.IsValid() {
			return usecases.ScanConfig{}, fmt.Errorf("unknown sort policy %q", cfg.Scanner.SortPolicy)
		}
	}
	return usecases.ScanConfig{
		DefaultLimit:     cfg.Scanner.DefaultLimit,
		ProbeCap:         cfg.Scanner.ProbeCap,
		ProbeFactor:      cfg.Scanner.ProbeFactor,
		Concurrency:      cfg.Scanner.Concurrency,
		Window:           window,
		Sort:             sortPolicy,
		PlaceholderImage: cfg.IPFS.PlaceholderImage,
	}, nil
}
