package usecases

import (
	"slices"
	"strings"

	"nft-launchpad.backend/internal/domain/entities"
)

// SortRecords orders records in place. Verified records always come first.
func SortRecords(records []*entities.NFTRecord, policy entities.SortPolicy) {
	slices.SortStableFunc(records, func(a, b *entities.NFTRecord) int {
		if a.Verified != b.Verified {
			if a.Verified {
				return -1
			}
			return 1
		}
		if policy == entities.SortVerifiedThenRecent {
			if c := compareListingRecency(a, b); c != 0 {
				return c
			}
			if c := compareDecimal(a.TokenID, b.TokenID); c != 0 {
				return -c
			}
			return strings.Compare(a.CollectionAddress, b.CollectionAddress)
		}
		if c := compareDecimal(a.TokenID, b.TokenID); c != 0 {
			return c
		}
		return strings.Compare(a.CollectionAddress, b.CollectionAddress)
	})
}

// compareListingRecency puts listed records before unlisted ones, newest
// listing id first.
func compareListingRecency(a, b *entities.NFTRecord) int {
	aID, bID := a.Listing.ListingID, b.Listing.ListingID
	switch {
	case aID.Valid && !bID.Valid:
		return -1
	case !aID.Valid && bID.Valid:
		return 1
	case aID.Valid && bID.Valid:
		return -compareDecimal(aID.String, bID.String)
	}
	return 0
}

// compareDecimal compares non-negative decimal strings numerically.
func compareDecimal(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
