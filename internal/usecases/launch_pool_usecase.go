package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/domain/repositories"
	"nft-launchpad.backend/pkg/utils"
)

type CreateLaunchPoolInput struct {
	ContractAddress  string   `json:"contractAddress" binding:"required"`
	LaunchpadAddress string   `json:"launchpadAddress"`
	Name             string   `json:"name" binding:"required"`
	Symbol           string   `json:"symbol" binding:"required"`
	Description      string   `json:"description"`
	ImageURL         string   `json:"imageUrl"`
	MaxSupply        int64    `json:"maxSupply"`
	MintPrice        string   `json:"mintPrice"`
	CreatorAddress   string   `json:"creatorAddress" binding:"required"`
	Tags             []string `json:"tags"`
}

type LaunchPoolUsecase struct {
	repo             repositories.LaunchPoolRepository
	launchpadAddress string
}

func NewLaunchPoolUsecase(repo repositories.LaunchPoolRepository, launchpadAddress string) *LaunchPoolUsecase {
	return &LaunchPoolUsecase{repo: repo, launchpadAddress: strings.ToLower(launchpadAddress)}
}

// Create registers a pool in PENDING state.
func (u *LaunchPoolUsecase) Create(ctx context.Context, in CreateLaunchPoolInput) (*entities.LaunchPool, error) {
	if !utils.IsValidAddress(in.ContractAddress) {
		return nil, domainerrors.BadRequest("invalid contract address")
	}
	if !utils.IsValidAddress(in.CreatorAddress) {
		return nil, domainerrors.BadRequest("invalid creator address")
	}
	launchpad := strings.TrimSpace(in.LaunchpadAddress)
	if launchpad == "" {
		launchpad = u.launchpadAddress
	}
	if launchpad != "" && !utils.IsValidAddress(launchpad) {
		return nil, domainerrors.BadRequest("invalid launchpad address")
	}
	if in.MaxSupply < 0 {
		return nil, domainerrors.BadRequest("maxSupply must not be negative")
	}
	price := decimal.Zero
	if strings.TrimSpace(in.MintPrice) != "" {
		p, err := decimal.NewFromString(strings.TrimSpace(in.MintPrice))
		if err != nil || p.IsNegative() {
			return nil, domainerrors.BadRequest("invalid mint price")
		}
		price = p
	}

	pool := &entities.LaunchPool{
		ContractAddress:  utils.NormalizeAddress(in.ContractAddress),
		LaunchpadAddress: utils.NormalizeAddress(launchpad),
		Name:             strings.TrimSpace(in.Name),
		Symbol:           strings.TrimSpace(in.Symbol),
		Description:      in.Description,
		MaxSupply:        in.MaxSupply,
		MintPrice:        price,
		CreatorAddress:   utils.NormalizeAddress(in.CreatorAddress),
		Tags:             in.Tags,
		Status:           entities.LaunchPoolStatusPending,
	}
	if in.ImageURL != "" {
		pool.ImageURL = null.StringFrom(in.ImageURL)
	}
	if pool.Tags == nil {
		pool.Tags = []string{}
	}

	if err := u.repo.Create(ctx, pool); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("launch pool already exists for this contract")
		}
		return nil, err
	}
	return pool, nil
}

func (u *LaunchPoolUsecase) Get(ctx context.Context, id uuid.UUID) (*entities.LaunchPool, error) {
	pool, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("launch pool not found")
		}
		return nil, err
	}
	return pool, nil
}

// List pages pools, optionally filtered by status.
func (u *LaunchPoolUsecase) List(ctx context.Context, status string, pagination utils.PaginationParams) ([]*entities.LaunchPool, utils.PaginationMeta, error) {
	var filter *entities.LaunchPoolStatus
	if status != "" {
		s := entities.LaunchPoolStatus(strings.ToUpper(status))
		if !s.IsValid() {
			return nil, utils.PaginationMeta{}, domainerrors.BadRequest(fmt.Sprintf("invalid status %q", status))
		}
		filter = &s
	}
	pools, total, err := u.repo.List(ctx, filter, pagination.Limit, pagination.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return pools, utils.CalculateMeta(total, pagination.Page, pagination.Limit), nil
}

func (u *LaunchPoolUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*entities.LaunchPool, error) {
	s := entities.LaunchPoolStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !s.IsValid() {
		return nil, domainerrors.BadRequest(fmt.Sprintf("invalid status %q", status))
	}
	if err := u.repo.UpdateStatus(ctx, id, s); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("launch pool not found")
		}
		return nil, err
	}
	return u.Get(ctx, id)
}
