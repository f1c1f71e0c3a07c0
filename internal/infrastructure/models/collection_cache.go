package models

import "time"

// CollectionCache is one cached collection summary. UpdatedAt is stamped by
// the caller's clock so freshness checks stay deterministic.
type CollectionCache struct {
	Address     string  `gorm:"type:varchar(42);primaryKey"`
	Name        string  `gorm:"type:varchar(255);not null"`
	Symbol      string  `gorm:"type:varchar(64);not null"`
	TotalSupply int64   `gorm:"not null;default:0"`
	MaxSupply   *int64  `gorm:"column:max_supply"`
	ImageURL    *string `gorm:"type:text"`
	Verified    bool    `gorm:"not null;default:false;index"`
	Source      string  `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false;index"`
}

func (CollectionCache) TableName() string {
	return "collection_cache"
}
