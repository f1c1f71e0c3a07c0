package repositories

import (
	"context"

	"github.com/google/uuid"
	"nft-launchpad.backend/internal/domain/entities"
)

type LaunchPoolRepository interface {
	Create(ctx context.Context, pool *entities.LaunchPool) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.LaunchPool, error)
	GetByContract(ctx context.Context, contractAddress string) (*entities.LaunchPool, error)
	List(ctx context.Context, status *entities.LaunchPoolStatus, limit, offset int) ([]*entities.LaunchPool, int64, error)
	ListActive(ctx context.Context) ([]*entities.LaunchPool, error)
	ListAll(ctx context.Context) ([]*entities.LaunchPool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.LaunchPoolStatus) error
}
