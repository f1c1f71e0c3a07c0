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

type MarketplaceService interface {
	BuildList(ctx context.Context, in usecases.ListInput) ([]entities.UnsignedCall, error)
	BuildBuy(ctx context.Context, in usecases.ListingIDInput) (*entities.UnsignedCall, error)
	BuildCancel(ctx context.Context, in usecases.ListingIDInput) (*entities.UnsignedCall, error)
	ActiveListings(ctx context.Context) ([]entities.ListingView, error)
}

// MarketplaceHandler returns unsigned calls for the client wallet to sign.
type MarketplaceHandler struct {
	marketplace MarketplaceService
}

func NewMarketplaceHandler(marketplace MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{marketplace: marketplace}
}

// List returns the approval call followed by listItem.
// POST /api/v1/marketplace/list
func (h *MarketplaceHandler) List(c *gin.Context) {
	var input usecases.ListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	calls, err := h.marketplace.BuildList(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	body := gin.H{"calls": calls}
	if len(calls) > 0 {
		body["data"] = calls[len(calls)-1]
	}
	response.SuccessWith(c, http.StatusOK, body)
}

// Buy returns the payable buyItem call.
// POST /api/v1/marketplace/buy
func (h *MarketplaceHandler) Buy(c *gin.Context) {
	h.listingCall(c, h.marketplace.BuildBuy)
}

// Cancel returns the cancelListing call.
// POST /api/v1/marketplace/cancel
func (h *MarketplaceHandler) Cancel(c *gin.Context) {
	h.listingCall(c, h.marketplace.BuildCancel)
}

// Listings returns the active listings.
// GET /api/v1/marketplace/listings
func (h *MarketplaceHandler) Listings(c *gin.Context) {
	listings, err := h.marketplace.ActiveListings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if listings == nil {
		listings = []entities.ListingView{}
	}
	response.SuccessWith(c, http.StatusOK, gin.H{"data": listings, "count": len(listings)})
}

func (h *MarketplaceHandler) listingCall(c *gin.Context, build func(context.Context, usecases.ListingIDInput) (*entities.UnsignedCall, error)) {
	var input usecases.ListingIDInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	call, err := build(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, call)
}
