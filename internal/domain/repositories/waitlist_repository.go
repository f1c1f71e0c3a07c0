package repositories

import (
	"context"

	"nft-launchpad.backend/internal/domain/entities"
)

type WaitlistRepository interface {
	// Create returns domainerrors.ErrAlreadyExists for a duplicate email.
	Create(ctx context.Context, entry *entities.WaitlistEntry) error
	Count(ctx context.Context) (int64, error)
}
