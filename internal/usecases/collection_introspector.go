package usecases

import (
	"context"
	"math"
	"math/big"
	"strings"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"nft-launchpad.backend/internal/domain/entities"
	"nft-launchpad.backend/pkg/logger"
)

const (
	StrategyLaunchpadInfo = "launchpad_info"
	StrategyERC721        = "erc721"
	StrategyDefaults      = "defaults"
)

// collectionFields holds whatever a strategy managed to read. Nil or empty
// values fall back to the collection defaults.
type collectionFields struct {
	name        string
	symbol      string
	totalSupply *big.Int
	maxSupply   *big.Int
}

type introspectionStrategy struct {
	name string
	// run reports false when the contract answered none of its calls.
	run func(ctx context.Context, chain ChainReader, address string) (collectionFields, bool)
}

// CollectionIntrospector reads collection-level facts from a contract by
// trying each strategy in order.
type CollectionIntrospector struct {
	chain      ChainReader
	strategies []introspectionStrategy
}

func NewCollectionIntrospector(chain ChainReader) *CollectionIntrospector {
	return &CollectionIntrospector{
		chain:      chain,
		strategies: []introspectionStrategy{launchpadInfoStrategy, erc721Strategy},
	}
}

// Introspect never fails. A contract that answers nothing and has no code is
// reported as not introspectable; a chain that cannot be reached at all is
// reported as unreachable.
func (i *CollectionIntrospector) Introspect(ctx context.Context, address string) entities.CollectionInfo {
	address = strings.ToLower(strings.TrimSpace(address))

	for _, s := range i.strategies {
		fields, ok := s.run(ctx, i.chain, address)
		if !ok {
			continue
		}
		return buildCollectionInfo(address, fields, s.name)
	}

	code, err := i.chain.CodeAt(ctx, address)
	if err != nil {
		logger.Warn(ctx, "collection introspection could not reach chain",
			zap.String("collection", address), zap.Error(err))
		return entities.CollectionInfo{Address: address, Unreachable: true}
	}
	if len(code) == 0 {
		return entities.CollectionInfo{Address: address}
	}
	return buildCollectionInfo(address, collectionFields{}, StrategyDefaults)
}

var launchpadInfoStrategy = introspectionStrategy{
	name: StrategyLaunchpadInfo,
	run: func(ctx context.Context, chain ChainReader, address string) (collectionFields, bool) {
		vals, err := callView(ctx, chain, address, LaunchpadCollectionABI, "getCollectionInfo")
		if err != nil || len(vals) < 4 {
			return collectionFields{}, false
		}
		name, _ := vals[0].(string)
		symbol, _ := vals[1].(string)
		maxSupply, _ := vals[2].(*big.Int)
		current, _ := vals[3].(*big.Int)
		return collectionFields{name: name, symbol: symbol, totalSupply: current, maxSupply: maxSupply}, true
	},
}

var erc721Strategy = introspectionStrategy{
	name: StrategyERC721,
	run: func(ctx context.Context, chain ChainReader, address string) (collectionFields, bool) {
		var f collectionFields
		answered := false

		if name, err := callTypedView[string](ctx, chain, address, ERC721ABI, "name"); err == nil {
			f.name = name
			answered = true
		}
		if symbol, err := callTypedView[string](ctx, chain, address, ERC721ABI, "symbol"); err == nil {
			f.symbol = symbol
			answered = true
		}
		if supply, err := callTypedView[*big.Int](ctx, chain, address, ERC721ABI, "totalSupply"); err == nil {
			f.totalSupply = supply
			answered = true
		}
		for _, method := range []string{"maxSupply", "MAX_SUPPLY"} {
			if max, err := callTypedView[*big.Int](ctx, chain, address, ERC721ABI, method); err == nil {
				f.maxSupply = max
				answered = true
				break
			}
		}
		return f, answered
	},
}

func buildCollectionInfo(address string, f collectionFields, strategy string) entities.CollectionInfo {
	info := entities.CollectionInfo{
		Address:        address,
		Name:           strings.TrimSpace(f.name),
		Symbol:         strings.TrimSpace(f.symbol),
		Introspectable: true,
		Strategy:       strategy,
	}
	if info.Name == "" {
		info.Name = entities.UnknownCollectionName
	}
	if info.Symbol == "" {
		info.Symbol = entities.UnknownCollectionSymbol
	}
	if f.totalSupply != nil && f.totalSupply.Sign() >= 0 {
		info.TotalSupply = clampUint64(f.totalSupply)
		info.SupplyKnown = true
	}
	if f.maxSupply != nil && f.maxSupply.Sign() > 0 {
		info.MaxSupply = null.Int64From(int64(min(clampUint64(f.maxSupply), math.MaxInt64)))
	}
	return info
}

func clampUint64(v *big.Int) uint64 {
	if v.IsUint64() {
		return v.Uint64()
	}
	if v.Sign() < 0 {
		return 0
	}
	return math.MaxUint64
}
