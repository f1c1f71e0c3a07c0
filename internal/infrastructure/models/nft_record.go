package models

import "time"

type NFTAttribute struct {
	TraitType   string      `json:"trait_type"`
	DisplayType string      `json:"display_type,omitempty"`
	Value       interface{} `json:"value"`
}

// NFTRecord is a persisted scan result, unique per (collection_address, token_id).
type NFTRecord struct {
	CollectionAddress string         `gorm:"type:varchar(42);primaryKey"`
	TokenID           string         `gorm:"type:varchar(78);primaryKey"`
	CollectionName    string         `gorm:"type:varchar(255)"`
	Owner             string         `gorm:"type:varchar(42);not null;index"`
	Name              string         `gorm:"type:varchar(255)"`
	Description       string         `gorm:"type:text"`
	Image             string         `gorm:"type:text"`
	Attributes        []NFTAttribute `gorm:"type:jsonb;serializer:json"`
	TokenURI          string         `gorm:"type:text"`
	Verified          bool           `gorm:"not null;default:false"`
	IsListed          bool           `gorm:"not null;default:false"`
	ListingPrice      *string        `gorm:"type:varchar(78)"`
	ListingID         *string        `gorm:"type:varchar(78)"`
	Seller            *string        `gorm:"type:varchar(42)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (NFTRecord) TableName() string {
	return "nft_records"
}
