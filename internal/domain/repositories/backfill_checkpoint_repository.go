package repositories

import (
	"context"

	"nft-launchpad.backend/internal/domain/entities"
)

type BackfillCheckpointRepository interface {
	Get(ctx context.Context, collection string) (*entities.BackfillCheckpoint, error)
	Save(ctx context.Context, checkpoint *entities.BackfillCheckpoint) error
}
