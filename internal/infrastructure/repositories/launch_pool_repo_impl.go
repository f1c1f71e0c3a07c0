package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/infrastructure/models"
	"nft-launchpad.backend/pkg/utils"
)

type LaunchPoolRepository struct {
	db *gorm.DB
}

func NewLaunchPoolRepository(db *gorm.DB) *LaunchPoolRepository {
	return &LaunchPoolRepository{db: db}
}

func (r *LaunchPoolRepository) Create(ctx context.Context, pool *entities.LaunchPool) error {
	if pool.ID == uuid.Nil {
		pool.ID = utils.GenerateUUIDv7()
	}
	m := r.toModel(pool)
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKeyError(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	pool.CreatedAt = m.CreatedAt
	pool.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *LaunchPoolRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.LaunchPool, error) {
	return r.first(GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id))
}

func (r *LaunchPoolRepository) GetByContract(ctx context.Context, contractAddress string) (*entities.LaunchPool, error) {
	return r.first(GetDB(ctx, r.db).WithContext(ctx).Where("contract_address = ?", strings.ToLower(contractAddress)))
}

func (r *LaunchPoolRepository) List(ctx context.Context, status *entities.LaunchPoolStatus, limit, offset int) ([]*entities.LaunchPool, int64, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.LaunchPool{})
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var ms []models.LaunchPool
	if err := query.Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return r.toEntities(ms), total, nil
}

func (r *LaunchPoolRepository) ListActive(ctx context.Context) ([]*entities.LaunchPool, error) {
	var ms []models.LaunchPool
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("status = ?", string(entities.LaunchPoolStatusActive)).
		Order("created_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

func (r *LaunchPoolRepository) ListAll(ctx context.Context) ([]*entities.LaunchPool, error) {
	var ms []models.LaunchPool
	if err := GetDB(ctx, r.db).WithContext(ctx).Order("created_at ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

func (r *LaunchPoolRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.LaunchPoolStatus) error {
	if !status.IsValid() {
		return domainerrors.ErrInvalidInput
	}
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.LaunchPool{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *LaunchPoolRepository) first(query *gorm.DB) (*entities.LaunchPool, error) {
	var m models.LaunchPool
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *LaunchPoolRepository) toEntities(ms []models.LaunchPool) []*entities.LaunchPool {
	items := make([]*entities.LaunchPool, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items
}

func (r *LaunchPoolRepository) toEntity(m *models.LaunchPool) *entities.LaunchPool {
	p := &entities.LaunchPool{
		ID:               m.ID,
		ContractAddress:  m.ContractAddress,
		LaunchpadAddress: m.LaunchpadAddress,
		Name:             m.Name,
		Symbol:           m.Symbol,
		Description:      m.Description,
		MaxSupply:        m.MaxSupply,
		MintPrice:        m.MintPrice,
		CreatorAddress:   m.CreatorAddress,
		Tags:             []string(m.Tags),
		Status:           entities.LaunchPoolStatus(m.Status),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.ImageURL != nil {
		p.ImageURL = null.StringFrom(*m.ImageURL)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p
}

func (r *LaunchPoolRepository) toModel(e *entities.LaunchPool) *models.LaunchPool {
	tags := pq.StringArray(e.Tags)
	if tags == nil {
		tags = pq.StringArray{}
	}
	return &models.LaunchPool{
		ID:               e.ID,
		ContractAddress:  strings.ToLower(e.ContractAddress),
		LaunchpadAddress: strings.ToLower(e.LaunchpadAddress),
		Name:             e.Name,
		Symbol:           e.Symbol,
		Description:      e.Description,
		ImageURL:         strPtr(e.ImageURL.Valid, e.ImageURL.String),
		MaxSupply:        e.MaxSupply,
		MintPrice:        e.MintPrice,
		CreatorAddress:   strings.ToLower(e.CreatorAddress),
		Tags:             tags,
		Status:           string(e.Status),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}
