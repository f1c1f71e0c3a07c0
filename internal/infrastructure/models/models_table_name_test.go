package models

import "testing"

func TestTableNames(t *testing.T) {
	if got := (CollectionCache{}).TableName(); got != "collection_cache" {
		t.Fatalf("unexpected CollectionCache table name: %s", got)
	}
	if got := (NFTRecord{}).TableName(); got != "nft_records" {
		t.Fatalf("unexpected NFTRecord table name: %s", got)
	}
	if got := (LaunchPool{}).TableName(); got != "launch_pools" {
		t.Fatalf("unexpected LaunchPool table name: %s", got)
	}
	if got := (WaitlistEntry{}).TableName(); got != "waitlist_entries" {
		t.Fatalf("unexpected WaitlistEntry table name: %s", got)
	}
	if got := (BackfillCheckpoint{}).TableName(); got != "backfill_checkpoints" {
		t.Fatalf("unexpected BackfillCheckpoint table name: %s", got)
	}
}
