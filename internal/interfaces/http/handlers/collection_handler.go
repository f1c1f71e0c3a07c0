package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-launchpad.backend/internal/domain/entities"
	"nft-launchpad.backend/internal/interfaces/http/response"
	"nft-launchpad.backend/internal/usecases"
	"nft-launchpad.backend/pkg/utils"
)

type CollectionService interface {
	ListCollections(ctx context.Context, filter entities.CollectionFilter) ([]*entities.CollectionSummary, int64, error)
	GetSummary(ctx context.Context, address string, refresh bool) (*entities.CollectionSummary, error)
	Preview(ctx context.Context, address string, count int) ([]entities.PreviewItem, *entities.CollectionSummary, error)
	ScanCollection(ctx context.Context, in usecases.ScanInput) (*entities.ScanResult, error)
	GetNFT(ctx context.Context, address, tokenID string) (*entities.NFTRecord, error)
}

type CollectionHandler struct {
	collections CollectionService
}

func NewCollectionHandler(collections CollectionService) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

// ListCollections returns cached collection summaries.
// GET /api/v1/collections?verified=&page=&limit=
func (h *CollectionHandler) ListCollections(c *gin.Context) {
	verified, err := queryBool(c, "verified")
	if err != nil {
		response.Error(c, err)
		return
	}
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
	p := utils.GetPaginationParams(page, limit)

	items, total, err := h.collections.ListCollections(c.Request.Context(), entities.CollectionFilter{
		Verified: verified,
		Limit:    p.Limit,
		Offset:   p.CalculateOffset(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []*entities.CollectionSummary{}
	}
	response.SuccessWith(c, http.StatusOK, gin.H{
		"data":       items,
		"count":      len(items),
		"total":      total,
		"pagination": utils.CalculateMeta(total, p.Page, p.Limit),
	})
}

// GetCollection returns one summary, cache-first.
// GET /api/v1/collections/:address?refresh=
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	refresh, err := queryBool(c, "refresh")
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.collections.GetSummary(c.Request.Context(), c.Param("address"), boolValue(refresh))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// Preview returns a few tokens for a collection card.
// GET /api/v1/collections/:address/preview?count=
func (h *CollectionHandler) Preview(c *gin.Context) {
	count, err := queryInt(c, "count")
	if err != nil {
		response.Error(c, err)
		return
	}
	items, summary, err := h.collections.Preview(c.Request.Context(), c.Param("address"), count)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWith(c, http.StatusOK, gin.H{
		"data":       items,
		"count":      len(items),
		"collection": summary,
	})
}

// ScanCollection lists the existing tokens of a collection.
// GET /api/v1/nfts/collection/:address?limit=&window=&verified=&persist=
func (h *CollectionHandler) ScanCollection(c *gin.Context) {
	in, err := scanInputFromQuery(c, c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.collections.ScanCollection(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeScanResult(c, result)
}

// GetNFT returns a single token.
// GET /api/v1/nfts/:address/:tokenId
func (h *CollectionHandler) GetNFT(c *gin.Context) {
	rec, err := h.collections.GetNFT(c.Request.Context(), c.Param("address"), c.Param("tokenId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

func scanInputFromQuery(c *gin.Context, address string) (usecases.ScanInput, error) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return usecases.ScanInput{}, err
	}
	window, err := queryWindow(c)
	if err != nil {
		return usecases.ScanInput{}, err
	}
	verified, err := queryBool(c, "verified")
	if err != nil {
		return usecases.ScanInput{}, err
	}
	persist, err := queryBool(c, "persist")
	if err != nil {
		return usecases.ScanInput{}, err
	}
	return usecases.ScanInput{
		Address:      address,
		Limit:        limit,
		Window:       window,
		VerifiedOnly: boolValue(verified),
		Persist:      boolValue(persist),
	}, nil
}

func writeScanResult(c *gin.Context, result *entities.ScanResult) {
	if !result.Introspectable {
		response.NotIntrospectable(c)
		return
	}
	nfts := result.NFTs
	if nfts == nil {
		nfts = []*entities.NFTRecord{}
	}
	response.SuccessWith(c, http.StatusOK, gin.H{
		"collection":   result.Collection,
		"nfts":         nfts,
		"count":        len(nfts),
		"scanned":      result.Scanned,
		"failedProbes": result.FailedProbes,
	})
}
