package usecases

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/infrastructure/metrics"
)

// memoryCollectionRepo is an in-memory CollectionCacheRepository.
type memoryCollectionRepo struct {
	mu      sync.Mutex
	rows    map[string]entities.CollectionSummary
	getErr  error
	upserts int
}

func newMemoryCollectionRepo() *memoryCollectionRepo {
	return &memoryCollectionRepo{rows: map[string]entities.CollectionSummary{}}
}

func (r *memoryCollectionRepo) GetByAddress(_ context.Context, address string) (*entities.CollectionSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	row, ok := r.rows[strings.ToLower(address)]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &row, nil
}

func (r *memoryCollectionRepo) Upsert(_ context.Context, s *entities.CollectionSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	r.rows[strings.ToLower(s.Address)] = *s
	return nil
}

func (r *memoryCollectionRepo) List(_ context.Context, filter entities.CollectionFilter) ([]*entities.CollectionSummary, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.CollectionSummary
	for _, row := range r.rows {
		if filter.Verified != nil && row.Verified != *filter.Verified {
			continue
		}
		row := row
		out = append(out, &row)
	}
	return out, int64(len(out)), nil
}

func (r *memoryCollectionRepo) ListAddresses(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for addr := range r.rows {
		out = append(out, addr)
	}
	return out, nil
}

func (r *memoryCollectionRepo) DeleteAll(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.rows))
	r.rows = map[string]entities.CollectionSummary{}
	return n, nil
}

func (r *memoryCollectionRepo) DeleteByAddresses(_ context.Context, addresses []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range addresses {
		if _, ok := r.rows[strings.ToLower(a)]; ok {
			delete(r.rows, strings.ToLower(a))
			n++
		}
	}
	return n, nil
}

func TestCollectionCache_PutIsIdempotent(t *testing.T) {
	repo := newMemoryCollectionRepo()
	c := NewCollectionCache(repo, time.Hour, nil)
	ctx := context.Background()

	s := &entities.CollectionSummary{Address: "0xABC", Name: "A", TotalSupply: 3}
	require.NoError(t, c.Put(ctx, s))
	require.NoError(t, c.Put(ctx, &entities.CollectionSummary{Address: "0xabc", Name: "A", TotalSupply: 3}))

	assert.Len(t, repo.rows, 1)
	got, ok, err := c.Get(ctx, "0xAbC")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0xabc", got.Address)
	assert.Equal(t, uint64(3), got.TotalSupply)
}

func TestCollectionCache_TTLBoundary(t *testing.T) {
	repo := newMemoryCollectionRepo()
	m := metrics.NewMetrics()
	c := NewCollectionCache(repo, time.Hour, m)
	ctx := context.Background()

	written := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return written }
	require.NoError(t, c.Put(ctx, &entities.CollectionSummary{Address: "0xabc", Name: "A"}))

	c.now = func() time.Time { return written.Add(3599 * time.Second) }
	_, ok, err := c.Get(ctx, "0xabc")
	require.NoError(t, err)
	assert.True(t, ok, "entry written 3599s ago is fresh")

	c.now = func() time.Time { return written.Add(3601 * time.Second) }
	_, ok, err = c.Get(ctx, "0xabc")
	require.NoError(t, err)
	assert.False(t, ok, "entry written 3601s ago is stale")

	c.now = func() time.Time { return written.Add(time.Hour) }
	assert.False(t, c.IsFresh(&entities.CollectionSummary{UpdatedAt: written}))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CollectionCache.WithLabelValues("hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CollectionCache.WithLabelValues("stale")))
}

func TestCollectionCache_MissAndErrors(t *testing.T) {
	repo := newMemoryCollectionRepo()
	c := NewCollectionCache(repo, 0, nil)
	assert.Equal(t, time.Hour, c.TTL())

	got, ok, err := c.Get(context.Background(), "0xdef")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	repo.getErr = errors.New("db down")
	_, _, err = c.Get(context.Background(), "0xdef")
	assert.Error(t, err)

	assert.NoError(t, c.Put(context.Background(), nil))
	assert.Equal(t, 0, repo.upserts)
}
