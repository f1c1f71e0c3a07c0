package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

type LaunchPoolStatus string

const (
	LaunchPoolStatusPending   LaunchPoolStatus = "PENDING"
	LaunchPoolStatusActive    LaunchPoolStatus = "ACTIVE"
	LaunchPoolStatusCompleted LaunchPoolStatus = "COMPLETED"
	LaunchPoolStatusCancelled LaunchPoolStatus = "CANCELLED"
)

func (s LaunchPoolStatus) IsValid() bool {
	switch s {
	case LaunchPoolStatusPending, LaunchPoolStatusActive, LaunchPoolStatusCompleted, LaunchPoolStatusCancelled:
		return true
	}
	return false
}

// LaunchPool is a collection launched through the launchpad. Discovery only
// reads it as a seed list.
type LaunchPool struct {
	ID               uuid.UUID        `json:"id"`
	ContractAddress  string           `json:"contractAddress"`
	LaunchpadAddress string           `json:"launchpadAddress"`
	Name             string           `json:"name"`
	Symbol           string           `json:"symbol"`
	Description      string           `json:"description"`
	ImageURL         null.String      `json:"imageUrl"`
	MaxSupply        int64            `json:"maxSupply"`
	MintPrice        decimal.Decimal  `json:"mintPrice"`
	CreatorAddress   string           `json:"creatorAddress"`
	Tags             []string         `json:"tags"`
	Status           LaunchPoolStatus `json:"status"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}
