package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/interfaces/http/response"
	"nft-launchpad.backend/internal/usecases"
)

type ScannerService interface {
	ScanCollection(ctx context.Context, in usecases.ScanInput) (*entities.ScanResult, error)
	CollectionStats(ctx context.Context, address string, limit int) (*entities.CollectionStats, error)
	UserNFTs(ctx context.Context, owner string, limit int) ([]*entities.NFTRecord, error)
	MarketplaceNFTs(ctx context.Context, limit int) ([]*entities.NFTRecord, error)
	KnownCollections(ctx context.Context) ([]*entities.CollectionSummary, error)
	ScanAll(ctx context.Context, limit int, verifiedOnly bool) ([]*entities.NFTRecord, error)
}

type NFTScannerHandler struct {
	scanner ScannerService
}

func NewNFTScannerHandler(scanner ScannerService) *NFTScannerHandler {
	return &NFTScannerHandler{scanner: scanner}
}

// Handle dispatches on the action query parameter.
// GET /api/v1/nft-scanner?action=
func (h *NFTScannerHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()
	limit, err := queryInt(c, "limit")
	if err != nil {
		response.Error(c, err)
		return
	}

	switch c.Query("action") {
	case usecases.ActionScanCollection:
		in, err := scanInputFromQuery(c, c.Query("address"))
		if err != nil {
			response.Error(c, err)
			return
		}
		result, err := h.scanner.ScanCollection(ctx, in)
		if err != nil {
			response.Error(c, err)
			return
		}
		writeScanResult(c, result)

	case usecases.ActionCollectionStats:
		stats, err := h.scanner.CollectionStats(ctx, c.Query("address"), limit)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, stats)

	case usecases.ActionUserNFTs:
		records, err := h.scanner.UserNFTs(ctx, c.Query("owner"), limit)
		writeRecords(c, records, err)

	case usecases.ActionMarketplaceNFTs:
		records, err := h.scanner.MarketplaceNFTs(ctx, limit)
		writeRecords(c, records, err)

	case usecases.ActionKnownCollections:
		known, err := h.scanner.KnownCollections(ctx)
		if err != nil {
			response.Error(c, err)
			return
		}
		if known == nil {
			known = []*entities.CollectionSummary{}
		}
		response.SuccessWith(c, http.StatusOK, gin.H{"data": known, "count": len(known)})

	case usecases.ActionScanAll:
		verified, err := queryBool(c, "verified")
		if err != nil {
			response.Error(c, err)
			return
		}
		records, err := h.scanner.ScanAll(ctx, limit, boolValue(verified))
		writeRecords(c, records, err)

	default:
		response.Error(c, domainerrors.BadRequest("unknown action"))
	}
}

func writeRecords(c *gin.Context, records []*entities.NFTRecord, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	if records == nil {
		records = []*entities.NFTRecord{}
	}
	response.SuccessWith(c, http.StatusOK, gin.H{"data": records, "count": len(records)})
}
