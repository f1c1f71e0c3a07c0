package usecases

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/volatiletech/null/v8"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/domain/repositories"
	"nft-launchpad.backend/pkg/utils"
)

type JoinWaitlistInput struct {
	Email         string `json:"email" binding:"required"`
	WalletAddress string `json:"walletAddress"`
}

type WaitlistUsecase struct {
	repo repositories.WaitlistRepository
}

func NewWaitlistUsecase(repo repositories.WaitlistRepository) *WaitlistUsecase {
	return &WaitlistUsecase{repo: repo}
}

// Join adds an email once. A second signup with the same address, in any
// letter case, is a conflict and writes nothing.
func (u *WaitlistUsecase) Join(ctx context.Context, in JoinWaitlistInput) (*entities.WaitlistEntry, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, domainerrors.BadRequest("invalid email address")
	}

	entry := &entities.WaitlistEntry{Email: email}
	if wallet := strings.TrimSpace(in.WalletAddress); wallet != "" {
		if !utils.IsValidAddress(wallet) {
			return nil, domainerrors.BadRequest("invalid wallet address")
		}
		entry.WalletAddress = null.StringFrom(utils.NormalizeAddress(wallet))
	}

	if err := u.repo.Create(ctx, entry); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("email already on the waitlist")
		}
		return nil, err
	}
	return entry, nil
}

func (u *WaitlistUsecase) Count(ctx context.Context) (int64, error) {
	return u.repo.Count(ctx)
}
