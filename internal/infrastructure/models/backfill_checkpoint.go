package models

import "time"

type BackfillCheckpoint struct {
	CollectionAddress string `gorm:"type:varchar(42);primaryKey"`
	LastBlock         int64  `gorm:"not null;default:0"`
	TokensSeen        int    `gorm:"not null;default:0"`
	LastError         string `gorm:"type:text"`
	UpdatedAt         time.Time
}

func (BackfillCheckpoint) TableName() string {
	return "backfill_checkpoints"
}
