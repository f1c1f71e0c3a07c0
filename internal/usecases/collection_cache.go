package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/domain/repositories"
	"nft-launchpad.backend/internal/infrastructure/metrics"
)

const DefaultCollectionTTL = time.Hour

// CollectionCache is the TTL view over persisted collection summaries. A
// stale row is treated exactly like a missing one. Writes are last-wins.
type CollectionCache struct {
	repo    repositories.CollectionCacheRepository
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
}

func NewCollectionCache(repo repositories.CollectionCacheRepository, ttl time.Duration, m *metrics.Metrics) *CollectionCache {
	if ttl <= 0 {
		ttl = DefaultCollectionTTL
	}
	return &CollectionCache{repo: repo, ttl: ttl, now: time.Now, metrics: m}
}

func (c *CollectionCache) TTL() time.Duration {
	return c.ttl
}

// IsFresh reports whether s was written less than one TTL ago.
func (c *CollectionCache) IsFresh(s *entities.CollectionSummary) bool {
	return s != nil && c.now().Sub(s.UpdatedAt) < c.ttl
}

// Get returns (summary, true) only for a fresh entry.
func (c *CollectionCache) Get(ctx context.Context, address string) (*entities.CollectionSummary, bool, error) {
	s, err := c.repo.GetByAddress(ctx, strings.ToLower(address))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			c.metrics.IncCollectionCache("miss")
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read collection cache: %w", err)
	}
	if !c.IsFresh(s) {
		c.metrics.IncCollectionCache("stale")
		return nil, false, nil
	}
	c.metrics.IncCollectionCache("hit")
	return s, true, nil
}

// Put upserts s keyed by its lowercased address and stamps it with now.
func (c *CollectionCache) Put(ctx context.Context, s *entities.CollectionSummary) error {
	if s == nil {
		return nil
	}
	s.Address = strings.ToLower(strings.TrimSpace(s.Address))
	s.UpdatedAt = c.now().UTC()
	if err := c.repo.Upsert(ctx, s); err != nil {
		return fmt.Errorf("failed to write collection cache: %w", err)
	}
	return nil
}

// List returns cached summaries regardless of freshness; listings show the
// last known state.
func (c *CollectionCache) List(ctx context.Context, filter entities.CollectionFilter) ([]*entities.CollectionSummary, int64, error) {
	return c.repo.List(ctx, filter)
}
