package blockchain

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

var ErrNotConnected = errors.New("evm client not connected")

var (
	dialEVMClient    = ethclient.Dial
	getClientChainID = func(client *ethclient.Client, ctx context.Context) (*big.Int, error) {
		return client.ChainID(ctx)
	}
)

// EVMHooks replace RPC round trips in unit tests. Nil hooks fall through to
// the dialled client.
type EVMHooks struct {
	CallView    func(ctx context.Context, to string, data []byte) ([]byte, error)
	CodeAt      func(ctx context.Context, address string) ([]byte, error)
	BlockNumber func(ctx context.Context) (uint64, error)
	FilterLogs  func(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// EVMClient is the read-only view of the chain the scanner needs.
type EVMClient struct {
	client  *ethclient.Client
	chainID *big.Int
	rpcURL  string
	hooks   EVMHooks
}

// NewEVMClient dials rpcURL and resolves the chain id once.
func NewEVMClient(rpcURL string) (*EVMClient, error) {
	client, err := dialEVMClient(rpcURL)
	if err != nil {
		return nil, err
	}

	chainID, err := getClientChainID(client, context.Background())
	if err != nil {
		client.Close()
		return nil, err
	}

	return &EVMClient{
		client:  client,
		chainID: chainID,
		rpcURL:  rpcURL,
	}, nil
}

// NewEVMClientWithCallView creates an EVM client that answers eth_call from
// callViewFn. Other reads report ErrNotConnected.
func NewEVMClientWithCallView(chainID *big.Int, callViewFn func(ctx context.Context, to string, data []byte) ([]byte, error)) *EVMClient {
	return NewEVMClientWithHooks(chainID, EVMHooks{CallView: callViewFn})
}

func NewEVMClientWithHooks(chainID *big.Int, hooks EVMHooks) *EVMClient {
	if chainID == nil {
		chainID = big.NewInt(1)
	}
	return &EVMClient{
		chainID: chainID,
		hooks:   hooks,
	}
}

// ChainID returns the chain ID
func (c *EVMClient) ChainID() *big.Int {
	return c.chainID
}

func (c *EVMClient) RPCURL() string {
	return c.rpcURL
}

// CallView executes a read-only contract call at the latest block.
func (c *EVMClient) CallView(ctx context.Context, to string, data []byte) ([]byte, error) {
	if c.hooks.CallView != nil {
		return c.hooks.CallView(ctx, to, data)
	}
	if c.client == nil {
		return nil, ErrNotConnected
	}
	addr := common.HexToAddress(to)
	msg := ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}
	return c.client.CallContract(ctx, msg, nil)
}

// CodeAt returns the deployed bytecode at address; empty means no contract.
func (c *EVMClient) CodeAt(ctx context.Context, address string) ([]byte, error) {
	if c.hooks.CodeAt != nil {
		return c.hooks.CodeAt(ctx, address)
	}
	if c.client == nil {
		return nil, ErrNotConnected
	}
	return c.client.CodeAt(ctx, common.HexToAddress(address), nil)
}

// GetBlockNumber gets the latest block number
func (c *EVMClient) GetBlockNumber(ctx context.Context) (uint64, error) {
	if c.hooks.BlockNumber != nil {
		return c.hooks.BlockNumber(ctx)
	}
	if c.client == nil {
		return 0, ErrNotConnected
	}
	return c.client.BlockNumber(ctx)
}

// FilterLogs runs a bounded eth_getLogs query.
func (c *EVMClient) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	if c.hooks.FilterLogs != nil {
		return c.hooks.FilterLogs(ctx, q)
	}
	if c.client == nil {
		return nil, ErrNotConnected
	}
	return c.client.FilterLogs(ctx, q)
}

// Close closes the client connection
func (c *EVMClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}
