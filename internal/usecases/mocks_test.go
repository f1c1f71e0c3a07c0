package usecases

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock LaunchPoolRepository
type MockLaunchPoolRepository struct {
	mock.Mock
}

func (m *MockLaunchPoolRepository) Create(ctx context.Context, pool *entities.LaunchPool) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}

func (m *MockLaunchPoolRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.LaunchPool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LaunchPool), args.Error(1)
}

func (m *MockLaunchPoolRepository) GetByContract(ctx context.Context, contractAddress string) (*entities.LaunchPool, error) {
	args := m.Called(ctx, contractAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LaunchPool), args.Error(1)
}

func (m *MockLaunchPoolRepository) List(ctx context.Context, status *entities.LaunchPoolStatus, limit, offset int) ([]*entities.LaunchPool, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*entities.LaunchPool), args.Get(1).(int64), args.Error(2)
}

func (m *MockLaunchPoolRepository) ListActive(ctx context.Context) ([]*entities.LaunchPool, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.LaunchPool), args.Error(1)
}

func (m *MockLaunchPoolRepository) ListAll(ctx context.Context) ([]*entities.LaunchPool, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.LaunchPool), args.Error(1)
}

func (m *MockLaunchPoolRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.LaunchPoolStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// Mock WaitlistRepository
type MockWaitlistRepository struct {
	mock.Mock
}

func (m *MockWaitlistRepository) Create(ctx context.Context, entry *entities.WaitlistEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWaitlistRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// memoryNFTRepo is an in-memory NFTRepository keyed by collection and token.
type memoryNFTRepo struct {
	mu   sync.Mutex
	rows map[entities.ListingKey]entities.NFTRecord
	// failToken makes Upsert fail for that token id
	failToken string
}

func newMemoryNFTRepo() *memoryNFTRepo {
	return &memoryNFTRepo{rows: map[entities.ListingKey]entities.NFTRecord{}}
}

func (r *memoryNFTRepo) Upsert(_ context.Context, rec *entities.NFTRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failToken != "" && rec.TokenID == r.failToken {
		return errors.New("insert failed")
	}
	r.rows[entities.ListingKey{Collection: strings.ToLower(rec.CollectionAddress), TokenID: rec.TokenID}] = *rec
	return nil
}

func (r *memoryNFTRepo) GetByToken(_ context.Context, collection, tokenID string) (*entities.NFTRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[entities.ListingKey{Collection: strings.ToLower(collection), TokenID: tokenID}]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &row, nil
}

func (r *memoryNFTRepo) filter(keep func(entities.NFTRecord) bool, limit int) []*entities.NFTRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.NFTRecord
	for _, row := range r.rows {
		if keep(row) {
			row := row
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return compareDecimal(out[i].TokenID, out[j].TokenID) < 0 })
	return capRecords(out, limit)
}

func (r *memoryNFTRepo) ListByCollection(_ context.Context, collection string, limit int) ([]*entities.NFTRecord, error) {
	return r.filter(func(n entities.NFTRecord) bool { return n.CollectionAddress == strings.ToLower(collection) }, limit), nil
}

func (r *memoryNFTRepo) ListByOwner(_ context.Context, owner string, limit int) ([]*entities.NFTRecord, error) {
	return r.filter(func(n entities.NFTRecord) bool { return n.Owner == strings.ToLower(owner) }, limit), nil
}

func (r *memoryNFTRepo) ListCollectionAddresses(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := map[string]bool{}
	for k := range r.rows {
		set[k.Collection] = true
	}
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out, nil
}

func (r *memoryNFTRepo) DeleteByCollections(_ context.Context, collections []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k := range r.rows {
		for _, c := range collections {
			if k.Collection == strings.ToLower(c) {
				delete(r.rows, k)
				n++
				break
			}
		}
	}
	return n, nil
}

type memoryCheckpointRepo struct {
	rows map[string]entities.BackfillCheckpoint
}

func newMemoryCheckpointRepo() *memoryCheckpointRepo {
	return &memoryCheckpointRepo{rows: map[string]entities.BackfillCheckpoint{}}
}

func (r *memoryCheckpointRepo) Get(_ context.Context, collection string) (*entities.BackfillCheckpoint, error) {
	cp, ok := r.rows[collection]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return &cp, nil
}

func (r *memoryCheckpointRepo) Save(_ context.Context, cp *entities.BackfillCheckpoint) error {
	r.rows[cp.CollectionAddress] = *cp
	return nil
}

type fakeLogReader struct {
	head    uint64
	logs    []types.Log
	queries []ethereum.FilterQuery
}

func (f *fakeLogReader) GetBlockNumber(context.Context) (uint64, error) {
	return f.head, nil
}

func (f *fakeLogReader) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.queries = append(f.queries, q)
	return f.logs, nil
}
