package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createCollectionCacheTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE collection_cache (
		address TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		symbol TEXT NOT NULL,
		total_supply INTEGER NOT NULL DEFAULT 0,
		max_supply INTEGER,
		image_url TEXT,
		verified BOOLEAN NOT NULL DEFAULT false,
		source TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createNFTRecordTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE nft_records (
		collection_address TEXT NOT NULL,
		token_id TEXT NOT NULL,
		collection_name TEXT,
		owner TEXT NOT NULL,
		name TEXT,
		description TEXT,
		image TEXT,
		attributes TEXT,
		token_uri TEXT,
		verified BOOLEAN NOT NULL DEFAULT false,
		is_listed BOOLEAN NOT NULL DEFAULT false,
		listing_price TEXT,
		listing_id TEXT,
		seller TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		PRIMARY KEY (collection_address, token_id)
	);`)
}

func createLaunchPoolTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE launch_pools (
		id TEXT PRIMARY KEY,
		contract_address TEXT NOT NULL UNIQUE,
		launchpad_address TEXT,
		name TEXT NOT NULL,
		symbol TEXT NOT NULL,
		description TEXT,
		image_url TEXT,
		max_supply INTEGER NOT NULL DEFAULT 0,
		mint_price TEXT NOT NULL DEFAULT '0',
		creator_address TEXT,
		tags TEXT,
		status TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createWaitlistTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE waitlist_entries (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		wallet_address TEXT,
		created_at DATETIME
	);`)
}

func createBackfillCheckpointTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE backfill_checkpoints (
		collection_address TEXT PRIMARY KEY,
		last_block INTEGER NOT NULL DEFAULT 0,
		tokens_seen INTEGER NOT NULL DEFAULT 0,
		last_error TEXT,
		updated_at DATETIME
	);`)
}
