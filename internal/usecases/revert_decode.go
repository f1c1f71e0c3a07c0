package usecases

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var revertHexPattern = regexp.MustCompile(`0x[0-9a-fA-F]{8,}`)

// RevertDecoded is the readable form of revert bytes returned by eth_call.
type RevertDecoded struct {
	RawHex   string `json:"rawHex"`
	Selector string `json:"selector,omitempty"`
	Name     string `json:"name,omitempty"`
	Message  string `json:"message,omitempty"`
}

// decodeRevertDataFromError attempts to parse hex-encoded revert bytes from RPC errors.
// It supports rpc.DataError payloads and fallback extraction from error strings.
func decodeRevertDataFromError(err error) (RevertDecoded, bool) {
	if err == nil {
		return RevertDecoded{}, false
	}

	if data, ok := extractRevertHexFromDataError(err); ok {
		return decodeRevertData(data), true
	}

	if data, ok := extractRevertHexFromErrorString(err.Error()); ok {
		return decodeRevertData(data), true
	}

	return RevertDecoded{}, false
}

func decodeRevertData(data []byte) RevertDecoded {
	result := RevertDecoded{
		RawHex: "0x" + hex.EncodeToString(data),
	}
	if len(data) < 4 {
		result.Message = "execution_reverted"
		return result
	}

	result.Selector = "0x" + hex.EncodeToString(data[:4])
	switch result.Selector {
	case ErrorStringSelector:
		result.Name = "Error"
		stringType, err := abi.NewType("string", "", nil)
		if err == nil {
			outputs := abi.Arguments{{Type: stringType}}
			if values, unpackErr := outputs.Unpack(data[4:]); unpackErr == nil && len(values) == 1 {
				if msg, ok := values[0].(string); ok {
					result.Message = msg
					return result
				}
			}
		}
	case PanicSelector:
		if len(data) >= 36 {
			result.Name = "Panic"
			result.Message = fmt.Sprintf("panic code: %s", new(big.Int).SetBytes(data[4:36]).String())
			return result
		}
	case NonexistentTokenSelector:
		result.Name = "ERC721NonexistentToken"
		if len(data) >= 36 {
			result.Message = fmt.Sprintf("nonexistent token: %s", new(big.Int).SetBytes(data[4:36]).String())
			return result
		}
	}

	if result.Name != "" {
		result.Message = result.Name
	} else {
		result.Message = "execution_reverted"
	}
	return result
}

// isRevertError reports whether err means the node executed the call and the
// contract reverted, as opposed to the call never reaching the chain.
func isRevertError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	type rpcCodeError interface {
		ErrorCode() int
	}
	var codeErr rpcCodeError
	if errors.As(err, &codeErr) && codeErr.ErrorCode() == 3 {
		return true
	}
	if _, ok := extractRevertHexFromDataError(err); ok {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "revert") || strings.Contains(msg, "invalid opcode")
}

func extractRevertHexFromDataError(err error) ([]byte, bool) {
	type rpcDataError interface {
		ErrorData() interface{}
	}
	var dataErr rpcDataError
	if !errors.As(err, &dataErr) {
		return nil, false
	}
	return parseRevertBytesFromAny(dataErr.ErrorData())
}

func parseRevertBytesFromAny(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case string:
		return parseHexBytes(v)
	case []byte:
		if len(v) == 0 {
			return nil, false
		}
		out := make([]byte, len(v))
		copy(out, v)
		return out, true
	case map[string]interface{}:
		if raw, ok := v["data"]; ok {
			return parseRevertBytesFromAny(raw)
		}
		if raw, ok := v["result"]; ok {
			return parseRevertBytesFromAny(raw)
		}
	}
	return nil, false
}

func extractRevertHexFromErrorString(message string) ([]byte, bool) {
	for _, candidate := range revertHexPattern.FindAllString(message, -1) {
		if data, ok := parseHexBytes(candidate); ok {
			return data, true
		}
	}
	return nil, false
}

func parseHexBytes(raw string) ([]byte, bool) {
	value := strings.TrimSpace(strings.TrimPrefix(raw, "0x"))
	if len(value) < 8 || len(value)%2 != 0 {
		return nil, false
	}
	data, err := hex.DecodeString(value)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}
