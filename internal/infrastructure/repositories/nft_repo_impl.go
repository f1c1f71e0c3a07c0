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

type NFTRepository struct {
	db *gorm.DB
}

func NewNFTRepository(db *gorm.DB) *NFTRepository {
	return &NFTRepository{db: db}
}

// Upsert stores a record keyed by (collection_address, token_id); a re-scan
// refreshes ownership, metadata and listing columns.
func (r *NFTRepository) Upsert(ctx context.Context, record *entities.NFTRecord) error {
	m := r.toModel(record)
	return GetDB(ctx, r.db).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "collection_address"}, {Name: "token_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"collection_name", "owner", "name", "description", "image", "attributes", "token_uri",
				"verified", "is_listed", "listing_price", "listing_id", "seller", "updated_at",
			}),
		}).
		Create(m).Error
}

func (r *NFTRepository) GetByToken(ctx context.Context, collection, tokenID string) (*entities.NFTRecord, error) {
	var m models.NFTRecord
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("collection_address = ? AND token_id = ?", strings.ToLower(collection), tokenID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *NFTRepository) ListByCollection(ctx context.Context, collection string, limit int) ([]*entities.NFTRecord, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).
		Where("collection_address = ?", strings.ToLower(collection)).
		Order("LENGTH(token_id) ASC, token_id ASC")
	return r.find(query, limit)
}

func (r *NFTRepository) ListByOwner(ctx context.Context, owner string, limit int) ([]*entities.NFTRecord, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).
		Where("owner = ?", strings.ToLower(owner)).
		Order("verified DESC, collection_address ASC, LENGTH(token_id) ASC, token_id ASC")
	return r.find(query, limit)
}

func (r *NFTRepository) ListCollectionAddresses(ctx context.Context) ([]string, error) {
	var addresses []string
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.NFTRecord{}).
		Distinct("collection_address").
		Order("collection_address ASC").
		Pluck("collection_address", &addresses).Error
	return addresses, err
}

func (r *NFTRepository) DeleteByCollections(ctx context.Context, collections []string) (int64, error) {
	if len(collections) == 0 {
		return 0, nil
	}
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("collection_address IN ?", lowerAll(collections)).
		Delete(&models.NFTRecord{})
	return result.RowsAffected, result.Error
}

func (r *NFTRepository) find(query *gorm.DB, limit int) ([]*entities.NFTRecord, error) {
	if limit > 0 {
		query = query.Limit(limit)
	}
	var ms []models.NFTRecord
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	items := make([]*entities.NFTRecord, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

func (r *NFTRepository) toEntity(m *models.NFTRecord) *entities.NFTRecord {
	attrs := make([]entities.NFTAttribute, 0, len(m.Attributes))
	for _, a := range m.Attributes {
		attrs = append(attrs, entities.NFTAttribute{TraitType: a.TraitType, DisplayType: a.DisplayType, Value: a.Value})
	}
	rec := &entities.NFTRecord{
		CollectionAddress: m.CollectionAddress,
		CollectionName:    m.CollectionName,
		TokenID:           m.TokenID,
		Owner:             m.Owner,
		Name:              m.Name,
		Description:       m.Description,
		Image:             m.Image,
		Attributes:        attrs,
		TokenURI:          m.TokenURI,
		Verified:          m.Verified,
		Listing:           entities.Listing{IsListed: m.IsListed},
		UpdatedAt:         m.UpdatedAt,
	}
	if m.ListingPrice != nil {
		rec.Listing.Price = null.StringFrom(*m.ListingPrice)
	}
	if m.ListingID != nil {
		rec.Listing.ListingID = null.StringFrom(*m.ListingID)
	}
	if m.Seller != nil {
		rec.Listing.Seller = null.StringFrom(*m.Seller)
	}
	return rec
}

func (r *NFTRepository) toModel(e *entities.NFTRecord) *models.NFTRecord {
	attrs := make([]models.NFTAttribute, 0, len(e.Attributes))
	for _, a := range e.Attributes {
		attrs = append(attrs, models.NFTAttribute{TraitType: a.TraitType, DisplayType: a.DisplayType, Value: a.Value})
	}
	return &models.NFTRecord{
		CollectionAddress: strings.ToLower(e.CollectionAddress),
		TokenID:           e.TokenID,
		CollectionName:    e.CollectionName,
		Owner:             strings.ToLower(e.Owner),
		Name:              e.Name,
		Description:       e.Description,
		Image:             e.Image,
		Attributes:        attrs,
		TokenURI:          e.TokenURI,
		Verified:          e.Verified,
		IsListed:          e.Listing.IsListed,
		ListingPrice:      strPtr(e.Listing.Price.Valid, e.Listing.Price.String),
		ListingID:         strPtr(e.Listing.ListingID.Valid, e.Listing.ListingID.String),
		Seller:            strPtr(e.Listing.Seller.Valid, e.Listing.Seller.String),
		UpdatedAt:         e.UpdatedAt,
	}
}
