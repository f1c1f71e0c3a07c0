package usecases

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
)

// computeSelectorHex computes the 4-byte EVM function selector from a canonical
// function signature and returns it as a "0x"-prefixed hex string.
func computeSelectorHex(sig string) string {
	return "0x" + hex.EncodeToString(crypto.Keccak256([]byte(sig))[:4])
}

// Revert payload selectors.
var (
	// Error(string) -> 0x08c379a0
	ErrorStringSelector = computeSelectorHex("Error(string)")

	// Panic(uint256) -> 0x4e487b71
	PanicSelector = computeSelectorHex("Panic(uint256)")

	// ERC721NonexistentToken(uint256) from OpenZeppelin 5.x
	NonexistentTokenSelector = computeSelectorHex("ERC721NonexistentToken(uint256)")
)

// TransferEventTopic is keccak256("Transfer(address,address,uint256)").
var TransferEventTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// NotIntrospectableMessage is returned to clients for contracts that answer
// none of the collection accessors.
const NotIntrospectableMessage = "collection not introspectable"

// Scan limits
const (
	DefaultPreviewCount = 6
	MaxScanLimit        = 100
)
