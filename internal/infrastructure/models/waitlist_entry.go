package models

import (
	"time"

	"github.com/google/uuid"
)

type WaitlistEntry struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email         string    `gorm:"type:varchar(320);uniqueIndex;not null"`
	WalletAddress *string   `gorm:"type:varchar(42)"`
	CreatedAt     time.Time
}

func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}
