package main

import (
	"fmt"
	"log"
	"os"

	"nft-launchpad.backend/pkg/crypto"
)

var (
	printfFn       = fmt.Printf
	generateHashFn = generateHash
	generateKeyFn  = crypto.GenerateAdminKey
	fatalfFn       = log.Fatalf
)

// resolveKey returns the key passed on the command line, or a fresh one.
func resolveKey(args []string) (key string, generated bool, err error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], false, nil
	}
	key, err = generateKeyFn()
	return key, true, err
}

func generateHash(key string) (string, error) {
	return crypto.HashSecret(key)
}

func main() {
	key, generated, err := resolveKey(os.Args[1:])
	if err != nil {
		fatalfFn("Failed to generate admin key: %v", err)
		return
	}

	hash, err := generateHashFn(key)
	if err != nil {
		fatalfFn("Failed to hash admin key: %v", err)
		return
	}

	if generated {
		printfFn("ADMIN_API_KEY=%s\n", key)
	}
	printfFn("ADMIN_API_KEY_HASH=%s\n", hash)
}
