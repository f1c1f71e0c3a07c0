package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ChainReader is the read side of the chain used by discovery.
// *blockchain.EVMClient satisfies it.
type ChainReader interface {
	CallView(ctx context.Context, to string, data []byte) ([]byte, error)
	CodeAt(ctx context.Context, address string) ([]byte, error)
}

var (
	// ERC721ABI covers the collection accessors and the approval call used
	// before listing.
	ERC721ABI = mustParseABI(`[
		{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
		{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
		{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"maxSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"MAX_SUPPLY","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
		{"type":"function","name":"tokenURI","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
		{"type":"function","name":"setApprovalForAll","stateMutability":"nonpayable","inputs":[{"name":"operator","type":"address"},{"name":"approved","type":"bool"}],"outputs":[]},
		{"type":"event","name":"Transfer","anonymous":false,"inputs":[{"indexed":true,"name":"from","type":"address"},{"indexed":true,"name":"to","type":"address"},{"indexed":true,"name":"tokenId","type":"uint256"}]}
	]`)

	// LaunchpadCollectionABI is the rich accessor exposed by collections
	// deployed through the launchpad.
	LaunchpadCollectionABI = mustParseABI(`[
		{"type":"function","name":"getCollectionInfo","stateMutability":"view","inputs":[],"outputs":[
			{"name":"name","type":"string"},
			{"name":"symbol","type":"string"},
			{"name":"maxSupply","type":"uint256"},
			{"name":"currentSupply","type":"uint256"}
		]}
	]`)

	MarketplaceABI = mustParseABI(`[
		{"type":"function","name":"listingCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"listings","stateMutability":"view","inputs":[{"name":"listingId","type":"uint256"}],"outputs":[
			{"name":"nftContract","type":"address"},
			{"name":"tokenId","type":"uint256"},
			{"name":"seller","type":"address"},
			{"name":"price","type":"uint256"},
			{"name":"active","type":"bool"}
		]},
		{"type":"function","name":"listItem","stateMutability":"nonpayable","inputs":[{"name":"nftContract","type":"address"},{"name":"tokenId","type":"uint256"},{"name":"price","type":"uint256"}],"outputs":[]},
		{"type":"function","name":"buyItem","stateMutability":"payable","inputs":[{"name":"listingId","type":"uint256"}],"outputs":[]},
		{"type":"function","name":"cancelListing","stateMutability":"nonpayable","inputs":[{"name":"listingId","type":"uint256"}],"outputs":[]}
	]`)
)

var (
	errEmptyReturnData = errors.New("empty return data")
	errUndecodable     = errors.New("undecodable return data")
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// callTypedView packs method, runs it as eth_call and returns the first
// output converted to T.
func callTypedView[T any](
	ctx context.Context,
	client ChainReader,
	contractAddress string,
	parsedABI abi.ABI,
	method string,
	args ...interface{},
) (T, error) {
	var zero T

	vals, err := callView(ctx, client, contractAddress, parsedABI, method, args...)
	if err != nil {
		return zero, err
	}
	value, ok := vals[0].(T)
	if !ok {
		return zero, fmt.Errorf("invalid %s return type", method)
	}
	return value, nil
}

// callView returns all decoded outputs of method. Empty return data is an
// error, since a contract without the method answers with nothing.
func callView(
	ctx context.Context,
	client ChainReader,
	contractAddress string,
	parsedABI abi.ABI,
	method string,
	args ...interface{},
) ([]interface{}, error) {
	data, err := parsedABI.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	out, err := client.CallView(ctx, contractAddress, data)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", method, errEmptyReturnData)
	}
	vals, err := parsedABI.Unpack(method, out)
	if err != nil || len(vals) == 0 {
		return nil, fmt.Errorf("failed to decode %s: %w", method, errUndecodable)
	}
	return vals, nil
}
