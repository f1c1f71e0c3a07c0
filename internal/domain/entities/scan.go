package entities

import (
	"fmt"
	"math/big"
)

// WindowPolicy selects which token ids a scan probes first when supply is known.
type WindowPolicy string

const (
	WindowRecent    WindowPolicy = "recent"
	WindowAscending WindowPolicy = "ascending"
)

func (p WindowPolicy) IsValid() bool {
	return p == WindowRecent || p == WindowAscending
}

// ParseWindowPolicy returns def for an empty value.
func ParseWindowPolicy(s string, def WindowPolicy) (WindowPolicy, error) {
	if s == "" {
		return def, nil
	}
	p := WindowPolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown window policy %q", s)
	}
	return p, nil
}

// SortPolicy orders scan output. Verified records always come first.
type SortPolicy string

const (
	SortVerifiedThenTokenID SortPolicy = "verified_then_token_id"
	SortVerifiedThenRecent  SortPolicy = "verified_then_recent"
)

func (p SortPolicy) IsValid() bool {
	return p == SortVerifiedThenTokenID || p == SortVerifiedThenRecent
}

// ProbeOutcome is the three-valued result of an ownerOf probe.
type ProbeOutcome string

const (
	ProbeExists ProbeOutcome = "exists"
	ProbeAbsent ProbeOutcome = "absent"
	ProbeFailed ProbeOutcome = "failed"
)

type ProbeResult struct {
	TokenID *big.Int
	Outcome ProbeOutcome
	Owner   string
	Err     error
}

// ScanRequest describes one collection scan.
type ScanRequest struct {
	Address      string
	Limit        int
	VerifiedOnly bool
	Window       WindowPolicy
	Sort         SortPolicy
	// Summary skips introspection when the caller already holds a fresh one.
	Summary *CollectionSummary
}

// ScanResult is the output of a scan. An empty NFTs slice with
// Introspectable=true is a valid empty collection, not an error.
type ScanResult struct {
	Collection     *CollectionSummary `json:"collection"`
	NFTs           []*NFTRecord       `json:"nfts"`
	Scanned        int                `json:"scanned"`
	FailedProbes   int                `json:"failedProbes"`
	Introspectable bool               `json:"introspectable"`
	Message        string             `json:"message,omitempty"`
}

// CollectionStats is returned by the collection-stats scanner action.
type CollectionStats struct {
	Collection   *CollectionSummary `json:"collection"`
	ScannedCount int                `json:"scannedCount"`
	ListedCount  int                `json:"listedCount"`
}
