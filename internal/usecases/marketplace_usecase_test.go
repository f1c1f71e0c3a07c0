package usecases

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
)

const marketplaceAddr = "0x00000000000000000000000000000000000000f1"

type listingRow struct {
	nft    common.Address
	token  int64
	seller common.Address
	price  *big.Int
	active bool
}

func marketplaceChain(rows map[int64]listingRow) *fakeChain {
	return newFakeChain().
		on("listingCount", func(string, []interface{}) ([]interface{}, error) {
			return []interface{}{big.NewInt(int64(len(rows)))}, nil
		}).
		on("listings", func(_ string, args []interface{}) ([]interface{}, error) {
			row, ok := rows[args[0].(*big.Int).Int64()]
			if !ok {
				return []interface{}{common.Address{}, big.NewInt(0), common.Address{}, big.NewInt(0), false}, nil
			}
			return []interface{}{row.nft, big.NewInt(row.token), row.seller, row.price, row.active}, nil
		})
}

func oneEther() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
}

func TestMarketplaceReader_ActiveListingsAndLookup(t *testing.T) {
	nft := common.HexToAddress(collectionAddr)
	chain := marketplaceChain(map[int64]listingRow{
		1: {nft: nft, token: 5, seller: ownerFor(5), price: oneEther(), active: true},
		2: {nft: nft, token: 6, seller: ownerFor(6), price: big.NewInt(5e17), active: false},
	})
	r := NewMarketplaceReader(chain, strings.ToUpper(marketplaceAddr), 0)
	assert.Equal(t, marketplaceAddr, r.Address())

	listings, err := r.ActiveListings(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "5", listings[0].TokenID.String())

	lookup, err := r.Listings(context.Background())
	require.NoError(t, err)
	l, ok := lookup[entities.ListingKey{Collection: collectionAddr, TokenID: "5"}]
	require.True(t, ok)
	assert.True(t, l.IsListed)
	assert.Equal(t, "1", l.PriceEth.String)
	assert.Equal(t, "1000000000000000000", l.Price.String)
	assert.Equal(t, "1", l.ListingID.String)

	// memoized within the ttl
	before := chain.callCount("listingCount")
	_, err = r.ActiveListings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, chain.callCount("listingCount"))
}

func TestMarketplaceReader_Unconfigured(t *testing.T) {
	r := NewMarketplaceReader(newFakeChain(), "", 10)
	assert.False(t, r.Configured())

	_, err := r.ActiveListings(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrMarketplaceNotConfigured)

	lookup, err := r.Listings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lookup)
}

func TestFormatAndParseEther(t *testing.T) {
	assert.Equal(t, "0.5", FormatEther(big.NewInt(5e17)))
	assert.Equal(t, "0", FormatEther(nil))

	wei, err := ParseEther("0.25")
	require.NoError(t, err)
	assert.Equal(t, "250000000000000000", wei.String())

	for _, bad := range []string{"", "abc", "0", "-1", "0.0000000000000000001"} {
		_, err := ParseEther(bad)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput, bad)
	}
}

func TestMarketplaceUsecase_BuildList(t *testing.T) {
	u := NewMarketplaceUsecase(NewMarketplaceReader(newFakeChain(), marketplaceAddr, 10))

	calls, err := u.BuildList(context.Background(), ListInput{NFTContract: collectionAddr, TokenID: "7", Price: "1.5"})
	require.NoError(t, err)
	require.Len(t, calls, 2)

	assert.Equal(t, "setApprovalForAll", calls[0].FunctionName)
	assert.Equal(t, collectionAddr, calls[0].ContractAddress)
	assert.Equal(t, "0", calls[0].Value)

	assert.Equal(t, "listItem", calls[1].FunctionName)
	assert.Equal(t, marketplaceAddr, calls[1].ContractAddress)
	assert.Equal(t, "1500000000000000000", calls[1].Args[2])

	data, err := hexutil.Decode(calls[1].Data)
	require.NoError(t, err)
	assert.Equal(t, MarketplaceABI.Methods["listItem"].ID, data[:4])
	args, err := MarketplaceABI.Methods["listItem"].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	assert.Equal(t, "7", args[1].(*big.Int).String())

	_, err = u.BuildList(context.Background(), ListInput{NFTContract: "nope", TokenID: "1", Price: "1"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	_, err = u.BuildList(context.Background(), ListInput{NFTContract: collectionAddr, TokenID: "-1", Price: "1"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	_, err = u.BuildList(context.Background(), ListInput{NFTContract: collectionAddr, TokenID: "1", Price: "0"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	unconfigured := NewMarketplaceUsecase(NewMarketplaceReader(newFakeChain(), "", 10))
	_, err = unconfigured.BuildList(context.Background(), ListInput{NFTContract: collectionAddr, TokenID: "1", Price: "1"})
	assert.ErrorIs(t, err, domainerrors.ErrMarketplaceNotConfigured)
}

func TestMarketplaceUsecase_BuyAndCancel(t *testing.T) {
	nft := common.HexToAddress(collectionAddr)
	chain := marketplaceChain(map[int64]listingRow{
		1: {nft: nft, token: 5, seller: ownerFor(5), price: oneEther(), active: true},
		2: {nft: nft, token: 6, seller: ownerFor(6), price: oneEther(), active: false},
	})
	u := NewMarketplaceUsecase(NewMarketplaceReader(chain, marketplaceAddr, 10))
	ctx := context.Background()

	buy, err := u.BuildBuy(ctx, ListingIDInput{ListingID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "buyItem", buy.FunctionName)
	assert.Equal(t, "1000000000000000000", buy.Value)
	assert.True(t, strings.HasPrefix(buy.Data, hexutil.Encode(MarketplaceABI.Methods["buyItem"].ID)))

	cancel, err := u.BuildCancel(ctx, ListingIDInput{ListingID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "cancelListing", cancel.FunctionName)
	assert.Equal(t, "0", cancel.Value)

	_, err = u.BuildBuy(ctx, ListingIDInput{ListingID: "2"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	_, err = u.BuildBuy(ctx, ListingIDInput{ListingID: "9"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = u.BuildCancel(ctx, ListingIDInput{ListingID: "x"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	views, err := u.ActiveListings(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "1", views[0].PriceEth)

	chain.on("listings", func(string, []interface{}) ([]interface{}, error) {
		return nil, errors.New("connection refused")
	})
	_, err = u.BuildBuy(ctx, ListingIDInput{ListingID: "1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domainerrors.ErrNotFound)
}
