package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/infrastructure/models"
)

type BackfillCheckpointRepository struct {
	db *gorm.DB
}

func NewBackfillCheckpointRepository(db *gorm.DB) *BackfillCheckpointRepository {
	return &BackfillCheckpointRepository{db: db}
}

func (r *BackfillCheckpointRepository) Get(ctx context.Context, collection string) (*entities.BackfillCheckpoint, error) {
	var m models.BackfillCheckpoint
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("collection_address = ?", strings.ToLower(collection)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.BackfillCheckpoint{
		CollectionAddress: m.CollectionAddress,
		LastBlock:         uint64(m.LastBlock),
		TokensSeen:        m.TokensSeen,
		LastError:         m.LastError,
		UpdatedAt:         m.UpdatedAt,
	}, nil
}

func (r *BackfillCheckpointRepository) Save(ctx context.Context, cp *entities.BackfillCheckpoint) error {
	m := &models.BackfillCheckpoint{
		CollectionAddress: strings.ToLower(cp.CollectionAddress),
		LastBlock:         clampInt64(cp.LastBlock),
		TokensSeen:        cp.TokensSeen,
		LastError:         cp.LastError,
		UpdatedAt:         cp.UpdatedAt,
	}
	return GetDB(ctx, r.db).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection_address"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_block", "tokens_seen", "last_error", "updated_at"}),
		}).
		Create(m).Error
}
