package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/infrastructure/models"
	"nft-launchpad.backend/pkg/utils"
)

type WaitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

// Create inserts a new entry. Emails are compared lowercased; the pre-check
// keeps the common case off the unique index and the index settles races.
func (r *WaitlistRepository) Create(ctx context.Context, entry *entities.WaitlistEntry) error {
	entry.Email = strings.ToLower(strings.TrimSpace(entry.Email))
	db := GetDB(ctx, r.db).WithContext(ctx)

	var existing int64
	if err := db.Model(&models.WaitlistEntry{}).Where("email = ?", entry.Email).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return domainerrors.ErrAlreadyExists
	}

	if entry.ID == uuid.Nil {
		entry.ID = utils.GenerateUUIDv7()
	}
	m := &models.WaitlistEntry{
		ID:            entry.ID,
		Email:         entry.Email,
		WalletAddress: strPtr(entry.WalletAddress.Valid, strings.ToLower(entry.WalletAddress.String)),
	}
	if err := db.Create(m).Error; err != nil {
		if isDuplicateKeyError(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	entry.CreatedAt = m.CreatedAt
	return nil
}

func (r *WaitlistRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.WaitlistEntry{}).Count(&n).Error
	return n, err
}
