package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/infrastructure/models"
)

type CollectionCacheRepository struct {
	db *gorm.DB
}

func NewCollectionCacheRepository(db *gorm.DB) *CollectionCacheRepository {
	return &CollectionCacheRepository{db: db}
}

func (r *CollectionCacheRepository) GetByAddress(ctx context.Context, address string) (*entities.CollectionSummary, error) {
	var m models.CollectionCache
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("address = ?", strings.ToLower(address)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Upsert inserts or replaces the row for summary.Address. The caller owns
// UpdatedAt.
func (r *CollectionCacheRepository) Upsert(ctx context.Context, summary *entities.CollectionSummary) error {
	m := r.toModel(summary)
	return GetDB(ctx, r.db).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "address"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "symbol", "total_supply", "max_supply", "image_url", "verified", "source", "updated_at",
			}),
		}).
		Create(m).Error
}

func (r *CollectionCacheRepository) List(ctx context.Context, filter entities.CollectionFilter) ([]*entities.CollectionSummary, int64, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.CollectionCache{})
	if filter.Verified != nil {
		query = query.Where("verified = ?", *filter.Verified)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var ms []models.CollectionCache
	if err := query.Order("verified DESC, updated_at DESC").Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*entities.CollectionSummary, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, total, nil
}

func (r *CollectionCacheRepository) ListAddresses(ctx context.Context) ([]string, error) {
	var addresses []string
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.CollectionCache{}).
		Order("address ASC").
		Pluck("address", &addresses).Error
	return addresses, err
}

func (r *CollectionCacheRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := GetDB(ctx, r.db).WithContext(ctx).Where("1 = 1").Delete(&models.CollectionCache{})
	return result.RowsAffected, result.Error
}

func (r *CollectionCacheRepository) DeleteByAddresses(ctx context.Context, addresses []string) (int64, error) {
	if len(addresses) == 0 {
		return 0, nil
	}
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("address IN ?", lowerAll(addresses)).
		Delete(&models.CollectionCache{})
	return result.RowsAffected, result.Error
}

func (r *CollectionCacheRepository) toEntity(m *models.CollectionCache) *entities.CollectionSummary {
	s := &entities.CollectionSummary{
		Address:     m.Address,
		Name:        m.Name,
		Symbol:      m.Symbol,
		TotalSupply: uint64(m.TotalSupply),
		Verified:    m.Verified,
		Source:      entities.CollectionSource(m.Source),
		UpdatedAt:   m.UpdatedAt,
	}
	if m.MaxSupply != nil {
		s.MaxSupply = null.Int64From(*m.MaxSupply)
	}
	if m.ImageURL != nil {
		s.ImageURL = null.StringFrom(*m.ImageURL)
	}
	return s
}

func (r *CollectionCacheRepository) toModel(e *entities.CollectionSummary) *models.CollectionCache {
	m := &models.CollectionCache{
		Address:     strings.ToLower(e.Address),
		Name:        e.Name,
		Symbol:      e.Symbol,
		TotalSupply: clampInt64(e.TotalSupply),
		ImageURL:    strPtr(e.ImageURL.Valid, e.ImageURL.String),
		Verified:    e.Verified,
		Source:      string(e.Source),
		UpdatedAt:   e.UpdatedAt,
	}
	if e.MaxSupply.Valid {
		v := e.MaxSupply.Int64
		m.MaxSupply = &v
	}
	return m
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
