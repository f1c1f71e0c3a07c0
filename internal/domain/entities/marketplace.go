package entities

import "math/big"

// UnsignedCall is a contract call the client wallet signs and submits.
type UnsignedCall struct {
	ContractAddress string        `json:"contractAddress"`
	FunctionName    string        `json:"functionName"`
	Args            []interface{} `json:"args"`
	Value           string        `json:"value"`
	Data            string        `json:"data"`
}

// MarketplaceListing is one row read from the marketplace contract.
type MarketplaceListing struct {
	ListingID   *big.Int
	NFTContract string
	TokenID     *big.Int
	Seller      string
	Price       *big.Int
	Active      bool
}

// ListingKey identifies a token across collections.
type ListingKey struct {
	Collection string
	TokenID    string
}

// ListingView is the JSON shape of an active listing.
type ListingView struct {
	ListingID   string `json:"listingId"`
	NFTContract string `json:"nftContract"`
	TokenID     string `json:"tokenId"`
	Seller      string `json:"seller"`
	Price       string `json:"price"`
	PriceEth    string `json:"priceEth"`
	Active      bool   `json:"active"`
}
