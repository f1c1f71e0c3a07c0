package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/interfaces/http/response"
	"nft-launchpad.backend/internal/usecases"
	"nft-launchpad.backend/pkg/utils"
)

type LaunchPoolService interface {
	Create(ctx context.Context, in usecases.CreateLaunchPoolInput) (*entities.LaunchPool, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.LaunchPool, error)
	List(ctx context.Context, status string, pagination utils.PaginationParams) ([]*entities.LaunchPool, utils.PaginationMeta, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*entities.LaunchPool, error)
}

type LaunchPoolHandler struct {
	pools LaunchPoolService
}

func NewLaunchPoolHandler(pools LaunchPoolService) *LaunchPoolHandler {
	return &LaunchPoolHandler{pools: pools}
}

// CreateLaunchPool registers a pool.
// POST /api/v1/launch-pools
func (h *LaunchPoolHandler) CreateLaunchPool(c *gin.Context) {
	var input usecases.CreateLaunchPoolInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	pool, err := h.pools.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, pool)
}

// ListLaunchPools pages pools.
// GET /api/v1/launch-pools?status=&page=&limit=
func (h *LaunchPoolHandler) ListLaunchPools(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		response.Error(c, err)
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		response.Error(c, err)
		return
	}
	pools, meta, err := h.pools.List(c.Request.Context(), c.Query("status"), utils.GetPaginationParams(page, limit))
	if err != nil {
		response.Error(c, err)
		return
	}
	if pools == nil {
		pools = []*entities.LaunchPool{}
	}
	response.SuccessWith(c, http.StatusOK, gin.H{"data": pools, "pagination": meta})
}

// GetLaunchPool returns one pool.
// GET /api/v1/launch-pools/:id
func (h *LaunchPoolHandler) GetLaunchPool(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid launch pool ID"))
		return
	}
	pool, err := h.pools.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pool)
}

// UpdateLaunchPoolStatus moves a pool to another status.
// PATCH /api/v1/launch-pools/:id/status
func (h *LaunchPoolHandler) UpdateLaunchPoolStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid launch pool ID"))
		return
	}
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	pool, err := h.pools.UpdateStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pool)
}
