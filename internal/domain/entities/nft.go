package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// NFTAttribute keeps trait values as decoded from metadata JSON, so numeric
// and string values survive a round trip.
type NFTAttribute struct {
	TraitType   string      `json:"trait_type"`
	DisplayType string      `json:"display_type,omitempty"`
	Value       interface{} `json:"value"`
}

// TokenMetadata is the subset of ERC-721 metadata JSON the backend uses.
type TokenMetadata struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	ImageURL    string         `json:"image_url,omitempty"`
	Attributes  []NFTAttribute `json:"attributes"`
}

// Listing is the marketplace state of one token.
type Listing struct {
	IsListed  bool        `json:"isListed"`
	Price     null.String `json:"price"`
	PriceEth  null.String `json:"priceEth"`
	ListingID null.String `json:"listingId"`
	Seller    null.String `json:"seller"`
}

// NFTRecord is one discovered token. It only exists for token ids that
// answered a successful ownership probe.
type NFTRecord struct {
	CollectionAddress  string         `json:"collectionAddress"`
	CollectionName     string         `json:"collectionName"`
	TokenID            string         `json:"tokenId"`
	Owner              string         `json:"owner"`
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	Image              string         `json:"image"`
	Attributes         []NFTAttribute `json:"attributes"`
	TokenURI           string         `json:"tokenUri"`
	Verified           bool           `json:"verified"`
	StaticallyVerified bool           `json:"staticallyVerified"`
	ActiveLaunch       bool           `json:"launchpad"`
	Listing            Listing        `json:"listing"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// PreviewItem is the compact shape used by collection previews.
type PreviewItem struct {
	TokenID string `json:"tokenId"`
	Image   string `json:"image"`
	Name    string `json:"name"`
}
