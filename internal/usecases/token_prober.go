package usecases

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/domain/entities"
	"nft-launchpad.backend/internal/infrastructure/metrics"
)

// TokenProber answers "does this token id exist, and who owns it" with one
// ownerOf read. It never retries.
type TokenProber struct {
	chain ChainReader
	// collapseFailures reports transport failures as absence.
	collapseFailures bool
	metrics          *metrics.Metrics
}

func NewTokenProber(chain ChainReader, collapseFailures bool, m *metrics.Metrics) *TokenProber {
	return &TokenProber{chain: chain, collapseFailures: collapseFailures, metrics: m}
}

// Probe classifies the token as existing, absent (revert, empty return,
// zero owner) or failed (the call did not reach a verdict).
func (p *TokenProber) Probe(ctx context.Context, collection string, tokenID *big.Int) entities.ProbeResult {
	result := p.probe(ctx, collection, tokenID)
	if result.Outcome == entities.ProbeFailed && p.collapseFailures {
		result = entities.ProbeResult{TokenID: tokenID, Outcome: entities.ProbeAbsent}
	}
	p.metrics.IncProbe(string(result.Outcome))
	return result
}

func (p *TokenProber) probe(ctx context.Context, collection string, tokenID *big.Int) entities.ProbeResult {
	absent := entities.ProbeResult{TokenID: tokenID, Outcome: entities.ProbeAbsent}

	owner, err := callTypedView[common.Address](ctx, p.chain, collection, ERC721ABI, "ownerOf", tokenID)
	if err != nil {
		if errors.Is(err, errEmptyReturnData) || errors.Is(err, errUndecodable) || isRevertError(err) {
			return absent
		}
		return entities.ProbeResult{
			TokenID: tokenID,
			Outcome: entities.ProbeFailed,
			Err:     fmt.Errorf("%w: token %s: %v", domainerrors.ErrProbeFailed, tokenID.String(), err),
		}
	}
	if owner == (common.Address{}) {
		return absent
	}
	return entities.ProbeResult{
		TokenID: tokenID,
		Outcome: entities.ProbeExists,
		Owner:   strings.ToLower(owner.Hex()),
	}
}

// TokenURI returns "" when the contract does not answer tokenURI.
func (p *TokenProber) TokenURI(ctx context.Context, collection string, tokenID *big.Int) string {
	uri, err := callTypedView[string](ctx, p.chain, collection, ERC721ABI, "tokenURI", tokenID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(uri)
}
