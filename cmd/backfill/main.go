package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"nft-launchpad.backend/internal/app"
	"nft-launchpad.backend/internal/config"
	"nft-launchpad.backend/internal/infrastructure/jobs"
	"nft-launchpad.backend/internal/usecases"
	"nft-launchpad.backend/pkg/logger"
)

type backfillRunner interface {
	Run(ctx context.Context) (*usecases.BackfillReport, error)
}

type backfillDeps struct {
	loadEnv   func() error
	loadCfg   func() *config.Config
	initLog   func(env string)
	prepare   func(cfg *config.Config) (backfillRunner, io.Closer, error)
	signalCtx func() (context.Context, context.CancelFunc)
	out       io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultBackfillDeps() backfillDeps {
	return backfillDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		initLog: logger.Init,
		prepare: func(cfg *config.Config) (backfillRunner, io.Closer, error) {
			c, closer, err := app.Open(cfg, false)
			if err != nil {
				return nil, nil, err
			}
			return c.Backfill, closer, nil
		},
		signalCtx: func() (context.Context, context.CancelFunc) {
			return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		},
		out: os.Stdout,
	}
}

func runBackfill(args []string, deps backfillDeps) error {
	def := defaultBackfillDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.initLog == nil {
		deps.initLog = def.initLog
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.signalCtx == nil {
		deps.signalCtx = def.signalCtx
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("backfill", flag.ContinueOnError)
	watch := fs.Bool("watch", false, "keep running, one pass per interval")
	interval := fs.Duration("interval", 0, "pass interval in watch mode, defaults to BACKFILL_INTERVAL")
	fromLogs := fs.Bool("from-logs", false, "enumerate token ids from Transfer logs")
	limit := fs.Int("limit", 0, "tokens to scan per collection, defaults to BACKFILL_SCAN_LIMIT")
	noPersist := fs.Bool("no-persist", false, "only warm the collection cache")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := deps.loadCfg()
	deps.initLog(cfg.Server.Env)
	defer logger.Sync()

	if *fromLogs {
		cfg.Backfill.FromLogs = true
	}
	if *limit > 0 {
		cfg.Backfill.ScanLimit = *limit
	}
	if *noPersist {
		cfg.Backfill.PersistTokens = false
	}
	if *interval > 0 {
		cfg.Backfill.Interval = *interval
	}

	runner, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx, cancel := deps.signalCtx()
	defer cancel()

	job := jobs.NewCollectionBackfillJob(runner, cfg.Backfill.Interval)
	if *watch {
		job.Start(ctx)
		return nil
	}

	started := time.Now()
	report, err := job.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}
	return printReport(deps.out, report, time.Since(started))
}

func printReport(out io.Writer, report *usecases.BackfillReport, took time.Duration) error {
	for _, c := range report.Collections {
		status := "ok"
		if c.Error != "" {
			status = "error: " + c.Error
		}
		_, _ = fmt.Fprintf(out, "%s\t%s\tfound=%d\tpersisted=%d\t%s\n", c.Address, c.Name, c.Found, c.Persisted, status)
	}
	summary, err := json.Marshal(struct {
		Found     int    `json:"found"`
		Persisted int    `json:"persisted"`
		Errors    int    `json:"errors"`
		Took      string `json:"took"`
	}{report.Found, report.Persisted, report.Errors, took.Round(time.Millisecond).String()})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, string(summary))
	return nil
}

func main() {
	if err := runBackfill(os.Args[1:], defaultBackfillDeps()); err != nil {
		log.Fatal(err)
	}
}
