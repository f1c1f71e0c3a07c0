package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"nft-launchpad.backend/internal/config"
	"nft-launchpad.backend/internal/infrastructure/blockchain"
	"nft-launchpad.backend/internal/infrastructure/datasources/postgres"
	"nft-launchpad.backend/pkg/logger"
	"nft-launchpad.backend/pkg/redis"
)

var (
	openDB = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
		sqlDB, err := postgres.NewConnection(cfg)
		if err != nil {
			return nil, err
		}
		db, err := postgres.NewGormFromConnection(sqlDB)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return db, nil
	}
	dialChain = func(rpcURL string) (Chain, io.Closer, error) {
		client, err := chainClients.GetEVMClient(rpcURL)
		if err != nil {
			return nil, nil, err
		}
		return client, chainClients, nil
	}
	initRedis = redis.Init
)

// chainClients is the process-wide RPC client pool. Closing it is final.
var chainClients = blockchain.NewClientFactory()

// DialChain returns the shared client for rpcURL. The closer releases every
// client of the process and belongs to shutdown.
func DialChain(rpcURL string) (Chain, io.Closer, error) {
	return dialChain(rpcURL)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

type closers []io.Closer

// Close releases in reverse order of acquisition.
func (cs closers) Close() error {
	var errs []error
	for i := len(cs) - 1; i >= 0; i-- {
		if err := cs[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open connects to Postgres and the RPC node, and to Redis when withRedis is
// set, then builds the container. A Redis failure only disables the scan cache.
func Open(cfg *config.Config, withRedis bool) (*Container, io.Closer, error) {
	var held closers

	db, err := openDB(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
	}
	held = append(held, sqlDB)

	chain, chainCloser, err := dialChain(cfg.Blockchain.RPCURL)
	if err != nil {
		_ = held.Close()
		return nil, nil, fmt.Errorf("failed to connect to rpc: %w", err)
	}
	held = append(held, chainCloser)

	var rdb *goredis.Client
	if withRedis {
		if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
			logger.Warn(context.Background(), "Redis unavailable, scan cache untouched", zap.Error(err))
		} else {
			rdb = redis.GetClient()
			held = append(held, closerFunc(redis.Close))
		}
	}

	c, err := Build(cfg, db, rdb, chain, nil)
	if err != nil {
		_ = held.Close()
		return nil, nil, err
	}
	return c, held, nil
}
