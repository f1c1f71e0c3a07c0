package repositories

import (
	"context"

	"nft-launchpad.backend/internal/domain/entities"
)

type NFTRepository interface {
	Upsert(ctx context.Context, record *entities.NFTRecord) error
	GetByToken(ctx context.Context, collection, tokenID string) (*entities.NFTRecord, error)
	ListByCollection(ctx context.Context, collection string, limit int) ([]*entities.NFTRecord, error)
	ListByOwner(ctx context.Context, owner string, limit int) ([]*entities.NFTRecord, error)
	ListCollectionAddresses(ctx context.Context) ([]string, error)
	DeleteByCollections(ctx context.Context, collections []string) (int64, error)
}
