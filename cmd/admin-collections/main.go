package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"nft-launchpad.backend/internal/app"
	"nft-launchpad.backend/internal/config"
	"nft-launchpad.backend/internal/domain/entities"
	"nft-launchpad.backend/internal/usecases"
	"nft-launchpad.backend/pkg/logger"
)

const usage = `usage: admin-collections <command> [args]

commands:
  list                  print cached collection summaries
  clear-cache           drop cached summaries and cached scans
  cleanup-unverified    delete cache rows and NFTs of unverified collections
  refresh <address>     re-introspect one collection
`

type adminRuntime interface {
	ListCached(ctx context.Context) ([]*entities.CollectionSummary, error)
	ClearCache(ctx context.Context) (*usecases.ClearCacheResult, error)
	CleanupUnverified(ctx context.Context) (*usecases.CleanupResult, error)
	RefreshCollection(ctx context.Context, address string) (*entities.CollectionSummary, error)
}

type adminDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	initLog func(env string)
	prepare func(cfg *config.Config) (adminRuntime, io.Closer, error)
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultAdminDeps() adminDeps {
	return adminDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		initLog: logger.Init,
		prepare: func(cfg *config.Config) (adminRuntime, io.Closer, error) {
			c, closer, err := app.Open(cfg, true)
			if err != nil {
				return nil, nil, err
			}
			return c.Admin, closer, nil
		},
		out: os.Stdout,
	}
}

func runAdminCollections(args []string, deps adminDeps) error {
	def := defaultAdminDeps()
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
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("admin-collections", flag.ContinueOnError)
	fs.Usage = func() { _, _ = fmt.Fprint(fs.Output(), usage) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}
	command := rest[0]
	switch command {
	case "list", "clear-cache", "cleanup-unverified":
	case "refresh":
		if len(rest) < 2 || !strings.HasPrefix(rest[1], "0x") {
			return fmt.Errorf("refresh needs a 0x collection address")
		}
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := deps.loadCfg()
	deps.initLog(cfg.Server.Env)
	defer logger.Sync()

	runtime, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx := context.Background()
	switch command {
	case "list":
		items, err := runtime.ListCached(ctx)
		if err != nil {
			return fmt.Errorf("failed to list cached collections: %w", err)
		}
		printSummaries(deps.out, items)
	case "clear-cache":
		res, err := runtime.ClearCache(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(deps.out, "collections_deleted=%d\nscan_keys_deleted=%d\n", res.CollectionsDeleted, res.ScanKeysDeleted)
	case "cleanup-unverified":
		res, err := runtime.CleanupUnverified(ctx)
		if err != nil {
			return err
		}
		for _, addr := range res.Collections {
			_, _ = fmt.Fprintf(deps.out, "removed %s\n", addr)
		}
		_, _ = fmt.Fprintf(deps.out, "collections_deleted=%d\nnfts_deleted=%d\n", res.CollectionsDeleted, res.NFTsDeleted)
	case "refresh":
		summary, err := runtime.RefreshCollection(ctx, rest[1])
		if err != nil {
			return fmt.Errorf("failed to refresh %s: %w", rest[1], err)
		}
		printSummaries(deps.out, []*entities.CollectionSummary{summary})
	}
	return nil
}

func printSummaries(out io.Writer, items []*entities.CollectionSummary) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ADDRESS\tNAME\tSYMBOL\tSUPPLY\tVERIFIED\tSOURCE\tUPDATED")
	for _, s := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\t%s\t%s\n",
			s.Address, s.Name, s.Symbol, s.TotalSupply, s.Verified, s.Source, s.UpdatedAt.UTC().Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}

func main() {
	if err := runAdminCollections(os.Args[1:], defaultAdminDeps()); err != nil {
		log.Fatal(err)
	}
}
