package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotInitialized is returned by the helpers before Init succeeds.
var ErrNotInitialized = errors.New("redis client not initialized")

var (
	client *redis.Client

	pingClient = func(ctx context.Context, c *redis.Client) error {
		return c.Ping(ctx).Err()
	}
)

// Init parses the connection URL, applies an optional password override and
// verifies the server answers a PING within five seconds.
func Init(url, password string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return fmt.Errorf("invalid redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}

	c := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pingClient(ctx, c); err != nil {
		_ = c.Close()
		return fmt.Errorf("redis ping failed: %w", err)
	}

	client = c
	return nil
}

// SetClient replaces the shared client (used for testing).
func SetClient(c *redis.Client) {
	client = c
}

func GetClient() *redis.Client {
	return client
}

func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if client == nil {
		return ErrNotInitialized
	}
	return client.Set(ctx, key, value, expiration).Err()
}

func Get(ctx context.Context, key string) (string, error) {
	if client == nil {
		return "", ErrNotInitialized
	}
	return client.Get(ctx, key).Result()
}

func Del(ctx context.Context, key string) error {
	if client == nil {
		return ErrNotInitialized
	}
	return client.Del(ctx, key).Err()
}

func SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	if client == nil {
		return false, ErrNotInitialized
	}
	return client.SetNX(ctx, key, value, expiration).Result()
}

// DeleteByPrefix removes every key starting with prefix and reports how many
// keys were deleted. It walks the keyspace with SCAN.
func DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	if client == nil {
		return 0, ErrNotInitialized
	}
	deleted := 0
	iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to scan keys: %w", err)
	}
	return deleted, nil
}

// Close releases the shared client if one was initialised.
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}
