package usecases

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/pkg/utils"
)

// ListInput is the request to put one token on sale.
type ListInput struct {
	NFTContract string `json:"nftContract" binding:"required"`
	TokenID     string `json:"tokenId" binding:"required"`
	// Price is in ether, e.g. "0.25".
	Price string `json:"price" binding:"required"`
}

type ListingIDInput struct {
	ListingID string `json:"listingId" binding:"required"`
}

// MarketplaceUsecase builds unsigned calls for the client wallet. It never
// signs or submits anything.
type MarketplaceUsecase struct {
	reader *MarketplaceReader
}

func NewMarketplaceUsecase(reader *MarketplaceReader) *MarketplaceUsecase {
	return &MarketplaceUsecase{reader: reader}
}

// BuildList returns the approval call followed by the listItem call.
func (u *MarketplaceUsecase) BuildList(_ context.Context, in ListInput) ([]entities.UnsignedCall, error) {
	if !u.reader.Configured() {
		return nil, domainerrors.ErrMarketplaceNotConfigured
	}
	if !utils.IsValidAddress(in.NFTContract) {
		return nil, fmt.Errorf("%w: invalid nft contract address", domainerrors.ErrInvalidInput)
	}
	tokenID, err := utils.ParseTokenID(in.TokenID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrInvalidInput, err)
	}
	price, err := ParseEther(in.Price)
	if err != nil {
		return nil, err
	}

	nft := common.HexToAddress(in.NFTContract)
	marketplace := common.HexToAddress(u.reader.Address())

	approve, err := buildCall(ERC721ABI, nft, "setApprovalForAll", big.NewInt(0),
		[]interface{}{marketplace.Hex(), true}, marketplace, true)
	if err != nil {
		return nil, err
	}
	list, err := buildCall(MarketplaceABI, marketplace, "listItem", big.NewInt(0),
		[]interface{}{nft.Hex(), tokenID.String(), price.String()}, nft, tokenID, price)
	if err != nil {
		return nil, err
	}
	return []entities.UnsignedCall{approve, list}, nil
}

// BuildBuy reads the listing so the call carries the exact price as value.
func (u *MarketplaceUsecase) BuildBuy(ctx context.Context, in ListingIDInput) (*entities.UnsignedCall, error) {
	listing, err := u.activeListing(ctx, in.ListingID)
	if err != nil {
		return nil, err
	}
	call, err := buildCall(MarketplaceABI, common.HexToAddress(u.reader.Address()), "buyItem", listing.Price,
		[]interface{}{listing.ListingID.String()}, listing.ListingID)
	if err != nil {
		return nil, err
	}
	return &call, nil
}

func (u *MarketplaceUsecase) BuildCancel(ctx context.Context, in ListingIDInput) (*entities.UnsignedCall, error) {
	listing, err := u.activeListing(ctx, in.ListingID)
	if err != nil {
		return nil, err
	}
	call, err := buildCall(MarketplaceABI, common.HexToAddress(u.reader.Address()), "cancelListing", big.NewInt(0),
		[]interface{}{listing.ListingID.String()}, listing.ListingID)
	if err != nil {
		return nil, err
	}
	return &call, nil
}

// ActiveListings returns the listings for GET /marketplace/listings.
func (u *MarketplaceUsecase) ActiveListings(ctx context.Context) ([]entities.ListingView, error) {
	listings, err := u.reader.ActiveListings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entities.ListingView, 0, len(listings))
	for _, l := range listings {
		out = append(out, ToListingView(l))
	}
	return out, nil
}

func (u *MarketplaceUsecase) activeListing(ctx context.Context, rawID string) (*entities.MarketplaceListing, error) {
	if !u.reader.Configured() {
		return nil, domainerrors.ErrMarketplaceNotConfigured
	}
	id, err := utils.ParseTokenID(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid listing id", domainerrors.ErrInvalidInput)
	}
	listing, err := u.reader.GetListing(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) || isRevertError(err) {
			return nil, fmt.Errorf("%w: listing %s", domainerrors.ErrNotFound, id.String())
		}
		return nil, fmt.Errorf("failed to read listing: %w", err)
	}
	if !listing.Active {
		return nil, fmt.Errorf("%w: listing %s is not active", domainerrors.ErrInvalidInput, id.String())
	}
	return listing, nil
}

func buildCall(parsed abi.ABI, to common.Address, method string, value *big.Int, displayArgs []interface{}, packArgs ...interface{}) (entities.UnsignedCall, error) {
	data, err := parsed.Pack(method, packArgs...)
	if err != nil {
		return entities.UnsignedCall{}, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	return entities.UnsignedCall{
		ContractAddress: strings.ToLower(to.Hex()),
		FunctionName:    method,
		Args:            displayArgs,
		Value:           value.String(),
		Data:            hexutil.Encode(data),
	}, nil
}
