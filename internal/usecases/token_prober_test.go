package usecases

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/domain/entities"
	"nft-launchpad.backend/internal/infrastructure/metrics"
)

const collectionAddr = "0x00000000000000000000000000000000000abc01"

func TestTokenProber_Outcomes(t *testing.T) {
	chain := newFakeChain().on("ownerOf", func(_ string, args []interface{}) ([]interface{}, error) {
		switch args[0].(*big.Int).Int64() {
		case 1:
			return []interface{}{common.HexToAddress("0x00000000000000000000000000000000000000AA")}, nil
		case 2:
			return []interface{}{common.Address{}}, nil
		case 3:
			return nil, nil
		case 4:
			return nil, errors.New("dial tcp 127.0.0.1:8545: connect: connection refused")
		default:
			return nil, errors.New("execution reverted")
		}
	})
	m := metrics.NewMetrics()
	p := NewTokenProber(chain.client(), false, m)
	ctx := context.Background()

	res := p.Probe(ctx, collectionAddr, big.NewInt(1))
	assert.Equal(t, entities.ProbeExists, res.Outcome)
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", res.Owner)

	assert.Equal(t, entities.ProbeAbsent, p.Probe(ctx, collectionAddr, big.NewInt(2)).Outcome, "zero owner")
	assert.Equal(t, entities.ProbeAbsent, p.Probe(ctx, collectionAddr, big.NewInt(3)).Outcome, "empty return")
	assert.Equal(t, entities.ProbeAbsent, p.Probe(ctx, collectionAddr, big.NewInt(9)).Outcome, "revert")

	failed := p.Probe(ctx, collectionAddr, big.NewInt(4))
	assert.Equal(t, entities.ProbeFailed, failed.Outcome)
	require.Error(t, failed.Err)
	assert.ErrorIs(t, failed.Err, domainerrors.ErrProbeFailed)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ProbesTotal.WithLabelValues("exists")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.ProbesTotal.WithLabelValues("absent")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ProbesTotal.WithLabelValues("failed")))
}

func TestTokenProber_CollapseFailures(t *testing.T) {
	chain := newFakeChain().on("ownerOf", func(string, []interface{}) ([]interface{}, error) {
		return nil, context.DeadlineExceeded
	})
	p := NewTokenProber(chain, true, nil)

	res := p.Probe(context.Background(), collectionAddr, big.NewInt(0))
	assert.Equal(t, entities.ProbeAbsent, res.Outcome)
	assert.NoError(t, res.Err)
}

func TestTokenProber_TokenURI(t *testing.T) {
	chain := newFakeChain().on("tokenURI", func(_ string, args []interface{}) ([]interface{}, error) {
		if args[0].(*big.Int).Int64() == 7 {
			return []interface{}{" ipfs://bafy/7.json "}, nil
		}
		return nil, errors.New("execution reverted")
	})
	p := NewTokenProber(chain, false, nil)

	assert.Equal(t, "ipfs://bafy/7.json", p.TokenURI(context.Background(), collectionAddr, big.NewInt(7)))
	assert.Equal(t, "", p.TokenURI(context.Background(), collectionAddr, big.NewInt(8)))
}
