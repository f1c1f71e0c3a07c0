package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

type WaitlistEntry struct {
	ID            uuid.UUID   `json:"id"`
	Email         string      `json:"email"`
	WalletAddress null.String `json:"walletAddress"`
	CreatedAt     time.Time   `json:"createdAt"`
}
