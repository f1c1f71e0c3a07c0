package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-launchpad.backend/internal/domain/entities"
	"nft-launchpad.backend/internal/interfaces/http/response"
	"nft-launchpad.backend/internal/usecases"
)

type AdminService interface {
	ClearCache(ctx context.Context) (*usecases.ClearCacheResult, error)
	CleanupUnverified(ctx context.Context) (*usecases.CleanupResult, error)
	RefreshCollection(ctx context.Context, address string) (*entities.CollectionSummary, error)
}

type AdminHandler struct {
	admin AdminService
}

func NewAdminHandler(admin AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// ClearCache drops the collection cache and cached scans.
// POST /api/v1/admin/cache/clear
func (h *AdminHandler) ClearCache(c *gin.Context) {
	res, err := h.admin.ClearCache(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// CleanupUnverified removes data for collections that are no longer verified.
// POST /api/v1/admin/collections/cleanup-unverified
func (h *AdminHandler) CleanupUnverified(c *gin.Context) {
	res, err := h.admin.CleanupUnverified(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// RefreshCollection re-reads a collection from chain.
// POST /api/v1/admin/collections/:address/refresh
func (h *AdminHandler) RefreshCollection(c *gin.Context) {
	summary, err := h.admin.RefreshCollection(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}
