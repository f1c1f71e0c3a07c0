package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"nft-launchpad.backend/internal/domain/entities"
)

const KeyPrefixScan = "nftlaunchpad:scan:"

// ScanKey builds the cache key of one scan shape.
func ScanKey(address string, limit int, window entities.WindowPolicy, verifiedOnly bool) string {
	return fmt.Sprintf("%s%s:%d:%s:%t", KeyPrefixScan, strings.ToLower(address), limit, window, verifiedOnly)
}

// ScanResultCache keeps serialized scan results in Redis for a short TTL so
// repeated page loads do not re-probe the chain.
type ScanResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScanResultCache(client *redis.Client, ttl time.Duration) *ScanResultCache {
	return &ScanResultCache{client: client, ttl: ttl}
}

// Get returns (nil, nil) on a miss.
func (c *ScanResultCache) Get(ctx context.Context, key string) (*entities.ScanResult, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached scan: %w", err)
	}

	var result entities.ScanResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// a corrupt entry behaves like a miss and is dropped
		_ = c.client.Del(ctx, key).Err()
		return nil, nil
	}
	return &result, nil
}

func (c *ScanResultCache) Set(ctx context.Context, key string, result *entities.ScanResult) error {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode scan: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache scan: %w", err)
	}
	return nil
}

// Flush removes every cached scan and reports how many keys were dropped.
func (c *ScanResultCache) Flush(ctx context.Context) (int, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	deleted := 0
	iter := c.client.Scan(ctx, 0, KeyPrefixScan+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("failed to delete cache key: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to flush cache: %w", err)
	}
	return deleted, nil
}
