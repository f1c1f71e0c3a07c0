package usecases

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/pkg/logger"
)

const (
	DefaultListingScanCap = 200
	listingsMemoTTL       = 10 * time.Second
	weiDecimals           = 18
)

// MarketplaceReader reads listings straight from the marketplace contract.
type MarketplaceReader struct {
	chain   ChainReader
	address string
	scanCap int
	now     func() time.Time

	mu       sync.Mutex
	memo     []entities.MarketplaceListing
	memoedAt time.Time
}

func NewMarketplaceReader(chain ChainReader, address string, scanCap int) *MarketplaceReader {
	if scanCap <= 0 {
		scanCap = DefaultListingScanCap
	}
	return &MarketplaceReader{
		chain:   chain,
		address: strings.ToLower(strings.TrimSpace(address)),
		scanCap: scanCap,
		now:     time.Now,
	}
}

func (r *MarketplaceReader) Configured() bool {
	return r != nil && r.address != ""
}

func (r *MarketplaceReader) Address() string {
	if r == nil {
		return ""
	}
	return r.address
}

// ActiveListings walks listing ids from listingCount() downwards, newest
// first, reading at most scanCap ids. Missing ids are skipped.
func (r *MarketplaceReader) ActiveListings(ctx context.Context) ([]entities.MarketplaceListing, error) {
	if !r.Configured() {
		return nil, domainerrors.ErrMarketplaceNotConfigured
	}

	r.mu.Lock()
	if r.memo != nil && r.now().Sub(r.memoedAt) < listingsMemoTTL {
		out := r.memo
		r.mu.Unlock()
		return out, nil
	}
	r.mu.Unlock()

	count, err := callTypedView[*big.Int](ctx, r.chain, r.address, MarketplaceABI, "listingCount")
	if err != nil {
		return nil, fmt.Errorf("failed to read listing count: %w", err)
	}

	out := []entities.MarketplaceListing{}
	id := new(big.Int).Set(count)
	for reads := 0; reads < r.scanCap && id.Sign() >= 0; reads++ {
		listing, err := r.GetListing(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Debug(ctx, "listing read skipped", zap.String("listing_id", id.String()), zap.Error(err))
		} else if listing.Active {
			out = append(out, *listing)
		}
		id = new(big.Int).Sub(id, big.NewInt(1))
	}

	r.mu.Lock()
	r.memo = out
	r.memoedAt = r.now()
	r.mu.Unlock()
	return out, nil
}

// GetListing reads one listing by id.
func (r *MarketplaceReader) GetListing(ctx context.Context, listingID *big.Int) (*entities.MarketplaceListing, error) {
	if !r.Configured() {
		return nil, domainerrors.ErrMarketplaceNotConfigured
	}
	vals, err := callView(ctx, r.chain, r.address, MarketplaceABI, "listings", listingID)
	if err != nil {
		return nil, err
	}
	if len(vals) < 5 {
		return nil, fmt.Errorf("failed to decode listings: %w", errUndecodable)
	}
	nft, _ := vals[0].(common.Address)
	tokenID, _ := vals[1].(*big.Int)
	seller, _ := vals[2].(common.Address)
	price, _ := vals[3].(*big.Int)
	active, _ := vals[4].(bool)
	if nft == (common.Address{}) || tokenID == nil || price == nil {
		return nil, domainerrors.ErrNotFound
	}
	return &entities.MarketplaceListing{
		ListingID:   new(big.Int).Set(listingID),
		NFTContract: strings.ToLower(nft.Hex()),
		TokenID:     tokenID,
		Seller:      strings.ToLower(seller.Hex()),
		Price:       price,
		Active:      active,
	}, nil
}

// Listings implements ListingLookup. An unconfigured marketplace has no listings.
func (r *MarketplaceReader) Listings(ctx context.Context) (map[entities.ListingKey]entities.Listing, error) {
	out := map[entities.ListingKey]entities.Listing{}
	if !r.Configured() {
		return out, nil
	}
	active, err := r.ActiveListings(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range active {
		key := entities.ListingKey{Collection: l.NFTContract, TokenID: l.TokenID.String()}
		if _, seen := out[key]; seen {
			// newest listing wins
			continue
		}
		out[key] = ToListing(l)
	}
	return out, nil
}

// ToListing converts an on-chain listing into the record annotation.
func ToListing(l entities.MarketplaceListing) entities.Listing {
	return entities.Listing{
		IsListed:  l.Active,
		Price:     null.StringFrom(l.Price.String()),
		PriceEth:  null.StringFrom(FormatEther(l.Price)),
		ListingID: null.StringFrom(l.ListingID.String()),
		Seller:    null.StringFrom(l.Seller),
	}
}

func ToListingView(l entities.MarketplaceListing) entities.ListingView {
	return entities.ListingView{
		ListingID:   l.ListingID.String(),
		NFTContract: l.NFTContract,
		TokenID:     l.TokenID.String(),
		Seller:      l.Seller,
		Price:       l.Price.String(),
		PriceEth:    FormatEther(l.Price),
		Active:      l.Active,
	}
}

// FormatEther renders a wei amount in ether without trailing zeros.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -weiDecimals).String()
}

// ParseEther converts a positive ether amount into wei. Amounts finer than
// one wei are rejected.
func ParseEther(amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid price %q", domainerrors.ErrInvalidInput, amount)
	}
	if !d.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", domainerrors.ErrInvalidInput)
	}
	wei := d.Shift(weiDecimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, fmt.Errorf("%w: price has more than %d decimals", domainerrors.ErrInvalidInput, weiDecimals)
	}
	return wei.BigInt(), nil
}
