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

type WaitlistService interface {
	Join(ctx context.Context, in usecases.JoinWaitlistInput) (*entities.WaitlistEntry, error)
	Count(ctx context.Context) (int64, error)
}

type WaitlistHandler struct {
	waitlist WaitlistService
}

func NewWaitlistHandler(waitlist WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{waitlist: waitlist}
}

// Join adds an email to the waitlist; a repeat is a 409.
// POST /api/v1/waitlist
func (h *WaitlistHandler) Join(c *gin.Context) {
	var input usecases.JoinWaitlistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	entry, err := h.waitlist.Join(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, entry)
}

// GET /api/v1/waitlist/count
func (h *WaitlistHandler) Count(c *gin.Context) {
	n, err := h.waitlist.Count(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"count": n})
}
