package usecases

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"nft-launchpad.backend/internal/infrastructure/blockchain"
)

type methodHandler func(to string, args []interface{}) ([]interface{}, error)

// fakeChain answers eth_call by decoding the selector against the known ABIs
// and packing whatever the registered handler returns.
type fakeChain struct {
	mu       sync.Mutex
	handlers map[string]methodHandler
	code     map[string][]byte
	codeErr  error
	calls    map[string]int
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		handlers: map[string]methodHandler{},
		code:     map[string][]byte{},
		calls:    map[string]int{},
	}
}

func (f *fakeChain) on(method string, h methodHandler) *fakeChain {
	f.handlers[method] = h
	return f
}

func (f *fakeChain) withCode(address string) *fakeChain {
	f.code[strings.ToLower(address)] = []byte{0x60, 0x80}
	return f
}

func (f *fakeChain) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeChain) CallView(_ context.Context, to string, data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, errors.New("short calldata")
	}
	method, err := lookupMethod(data[:4])
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.calls[method.Name]++
	h, ok := f.handlers[method.Name]
	f.mu.Unlock()
	if !ok {
		return nil, errors.New("execution reverted")
	}

	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, err
	}
	out, err := h(to, args)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return []byte{}, nil
	}
	return method.Outputs.Pack(out...)
}

func (f *fakeChain) CodeAt(_ context.Context, address string) ([]byte, error) {
	if f.codeErr != nil {
		return nil, f.codeErr
	}
	return f.code[strings.ToLower(address)], nil
}

// client wraps the fake in the production client type through its hooks.
func (f *fakeChain) client() *blockchain.EVMClient {
	return blockchain.NewEVMClientWithHooks(big.NewInt(31337), blockchain.EVMHooks{
		CallView: f.CallView,
		CodeAt:   f.CodeAt,
	})
}

func lookupMethod(id []byte) (*abi.Method, error) {
	for _, parsed := range []abi.ABI{ERC721ABI, LaunchpadCollectionABI, MarketplaceABI} {
		if m, err := parsed.MethodById(id); err == nil {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unknown selector 0x%x", id)
}

func ownerFor(i int64) common.Address {
	return common.BigToAddress(big.NewInt(0x1000 + i))
}

// erc721Chain models a plain collection whose existing token ids are listed
// in exists; ownerOf reverts for everything else.
func erc721Chain(address, name string, supply int64, exists map[int64]bool) *fakeChain {
	return newFakeChain().
		withCode(address).
		on("name", func(string, []interface{}) ([]interface{}, error) { return []interface{}{name}, nil }).
		on("symbol", func(string, []interface{}) ([]interface{}, error) { return []interface{}{"SYM"}, nil }).
		on("totalSupply", func(string, []interface{}) ([]interface{}, error) {
			return []interface{}{big.NewInt(supply)}, nil
		}).
		on("ownerOf", func(_ string, args []interface{}) ([]interface{}, error) {
			id := args[0].(*big.Int).Int64()
			if !exists[id] {
				return nil, errors.New("execution reverted: ERC721: invalid token ID")
			}
			return []interface{}{ownerFor(id)}, nil
		})
}

var errExecutionReverted = errors.New("execution reverted")
