package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type LaunchPool struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ContractAddress  string          `gorm:"type:varchar(42);uniqueIndex;not null"`
	LaunchpadAddress string          `gorm:"type:varchar(42)"`
	Name             string          `gorm:"type:varchar(255);not null"`
	Symbol           string          `gorm:"type:varchar(64);not null"`
	Description      string          `gorm:"type:text"`
	ImageURL         *string         `gorm:"type:text"`
	MaxSupply        int64           `gorm:"not null;default:0"`
	MintPrice        decimal.Decimal `gorm:"type:decimal(36,18);not null;default:0"`
	CreatorAddress   string          `gorm:"type:varchar(42)"`
	Tags             pq.StringArray  `gorm:"type:text[];default:'{}'"`
	Status           string          `gorm:"type:varchar(20);not null;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (LaunchPool) TableName() string {
	return "launch_pools"
}
