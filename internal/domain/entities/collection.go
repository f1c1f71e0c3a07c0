package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// CollectionSource records where a collection summary was learned from.
type CollectionSource string

const (
	CollectionSourceLaunchpad  CollectionSource = "launchpad"
	CollectionSourceBlockchain CollectionSource = "blockchain"
)

// Defaults used when a contract does not answer the corresponding accessor.
const (
	UnknownCollectionName   = "Unknown Collection"
	UnknownCollectionSymbol = "UNKNOWN"
)

// CollectionSummary is the cached view of an ERC-721 collection. Address is
// always lowercased and is the cache key.
type CollectionSummary struct {
	Address            string           `json:"address"`
	Name               string           `json:"name"`
	Symbol             string           `json:"symbol"`
	TotalSupply        uint64           `json:"totalSupply"`
	MaxSupply          null.Int64       `json:"maxSupply"`
	ImageURL           null.String      `json:"imageUrl"`
	Verified           bool             `json:"verified"`
	StaticallyVerified bool             `json:"staticallyVerified"`
	ActiveLaunch       bool             `json:"launchpad"`
	Source             CollectionSource `json:"source"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

// CollectionFilter narrows collection listings.
type CollectionFilter struct {
	Verified *bool
	Limit    int
	Offset   int
}

// CollectionInfo is the raw result of introspecting a contract.
type CollectionInfo struct {
	Address        string
	Name           string
	Symbol         string
	TotalSupply    uint64
	SupplyKnown    bool
	MaxSupply      null.Int64
	Introspectable bool
	// Unreachable is set when the chain itself could not be queried.
	Unreachable bool
	Strategy    string
}

// Summary converts introspection output into a cacheable summary.
func (i CollectionInfo) Summary(source CollectionSource) *CollectionSummary {
	return &CollectionSummary{
		Address:     i.Address,
		Name:        i.Name,
		Symbol:      i.Symbol,
		TotalSupply: i.TotalSupply,
		MaxSupply:   i.MaxSupply,
		Source:      source,
	}
}
