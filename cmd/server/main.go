package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"nft-launchpad.backend/internal/app"
	"nft-launchpad.backend/internal/config"
	"nft-launchpad.backend/internal/infrastructure/jobs"
	"nft-launchpad.backend/internal/infrastructure/metrics"
	"nft-launchpad.backend/internal/interfaces/http/handlers"
	"nft-launchpad.backend/internal/interfaces/http/middleware"
	"nft-launchpad.backend/pkg/jwt"
	"nft-launchpad.backend/pkg/logger"
	"nft-launchpad.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	dialChain     = app.DialChain
	runServer     = serveHTTP
	getStdDB      = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
	notifyContext = signal.NotifyContext
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	// Scans still work without Redis, they just are not cached.
	redisUp := true
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Warn(ctx, "Redis unavailable, scan cache disabled", zap.Error(err))
		redisUp = false
	} else {
		logger.Info(ctx, "Redis initialized")
		defer redis.Close()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(ctx, "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(ctx, "Connected to PostgreSQL via GORM")
	}

	chain, chainCloser, err := dialChain(cfg.Blockchain.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to connect to rpc: %w", err)
	}
	defer chainCloser.Close()

	m := metrics.NewMetrics()
	rdb := redis.GetClient()
	if !redisUp {
		rdb = nil
	}
	container, err := app.Build(cfg, db, rdb, chain, m)
	if err != nil {
		return fmt.Errorf("failed to build services: %w", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	runCtx, stop := notifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Backfill.Interval > 0 {
		backfillJob := jobs.NewCollectionBackfillJob(container.Backfill, cfg.Backfill.Interval)
		go backfillJob.Start(runCtx)
		defer backfillJob.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(splitOrigins(cfg.Server.CORSAllowedOrigin)))

	registerHealthRoute(r)
	registerMetricsRoute(r, m)
	registerAPIV1Routes(r, routeDeps{
		collectionHandler:   handlers.NewCollectionHandler(container.Collections),
		scannerHandler:      handlers.NewNFTScannerHandler(container.Scanner),
		marketplaceHandler:  handlers.NewMarketplaceHandler(container.Marketplace),
		launchPoolHandler:   handlers.NewLaunchPoolHandler(container.LaunchPools),
		waitlistHandler:     handlers.NewWaitlistHandler(container.Waitlist),
		adminHandler:        handlers.NewAdminHandler(container.Admin),
		adminAuthMiddleware: middleware.AdminAuthMiddleware(jwtService, cfg.Security.AdminAPIKeyHash),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	logger.Info(ctx, "NFT launchpad backend starting",
		zap.String("port", cfg.Server.Port),
		zap.String("api", "http://localhost:"+cfg.Server.Port+"/api/v1"),
	)

	if err := runServer(runCtx, r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	logger.Info(ctx, "Server stopped")
	return nil
}

// serveHTTP serves until ctx is done, then drains in-flight requests.
func serveHTTP(ctx context.Context, handler http.Handler, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info(context.Background(), "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	}
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
