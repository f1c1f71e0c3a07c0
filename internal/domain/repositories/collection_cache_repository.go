package repositories

import (
	"context"

	"nft-launchpad.backend/internal/domain/entities"
)

// CollectionCacheRepository persists collection summaries keyed by lowercased address.
type CollectionCacheRepository interface {
	GetByAddress(ctx context.Context, address string) (*entities.CollectionSummary, error)
	Upsert(ctx context.Context, summary *entities.CollectionSummary) error
	List(ctx context.Context, filter entities.CollectionFilter) ([]*entities.CollectionSummary, int64, error)
	ListAddresses(ctx context.Context) ([]string, error)
	DeleteAll(ctx context.Context) (int64, error)
	DeleteByAddresses(ctx context.Context, addresses []string) (int64, error)
}
