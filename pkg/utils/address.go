package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsValidAddress reports whether s is a 0x-prefixed 20 byte hex address.
func IsValidAddress(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(strings.ToLower(s), "0x") && common.IsHexAddress(s)
}

// NormalizeAddress lowercases a contract address so it can be used as a key.
func NormalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseTokenID parses a non-negative decimal token id.
func ParseTokenID(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	id, ok := new(big.Int).SetString(s, 10)
	if !ok || id.Sign() < 0 {
		return nil, fmt.Errorf("invalid token id %q", s)
	}
	return id, nil
}
