package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"nft-launchpad.backend/pkg/crypto"
)

func TestResolveKey(t *testing.T) {
	key, generated, err := resolveKey([]string{"abc"})
	if err != nil || generated || key != "abc" {
		t.Fatalf("unexpected explicit key result: %q %v %v", key, generated, err)
	}

	key, generated, err = resolveKey(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !generated || key == "" {
		t.Fatalf("expected generated key, got %q", key)
	}
}

func TestGenerateHash(t *testing.T) {
	hash, err := generateHash("my-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !crypto.CheckSecret("my-key", hash) {
		t.Fatal("hash does not verify")
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = origStdout }()

	fn()

	_ = w.Close()
	var out bytes.Buffer
	_, _ = out.ReadFrom(r)
	return out.String()
}

func TestMain_PrintsHashForGivenKey(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"hash-gen", "my-key"}

	text := captureStdout(t, main)
	if strings.Contains(text, "ADMIN_API_KEY=") {
		t.Fatalf("explicit key must not be echoed: %s", text)
	}
	if !strings.Contains(text, "ADMIN_API_KEY_HASH=") {
		t.Fatalf("hash output missing: %s", text)
	}
}

func TestMain_GeneratesKey(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"hash-gen"}

	text := captureStdout(t, main)
	if !strings.Contains(text, "ADMIN_API_KEY=") || !strings.Contains(text, "ADMIN_API_KEY_HASH=") {
		t.Fatalf("unexpected output: %s", text)
	}
}

func TestMain_FailurePaths(t *testing.T) {
	origArgs, origKey, origHash, origFatal := os.Args, generateKeyFn, generateHashFn, fatalfFn
	t.Cleanup(func() {
		os.Args, generateKeyFn, generateHashFn, fatalfFn = origArgs, origKey, origHash, origFatal
	})

	var fatal string
	fatalfFn = func(format string, args ...interface{}) { fatal = fmt.Sprintf(format, args...) }

	os.Args = []string{"hash-gen"}
	generateKeyFn = func() (string, error) { return "", errors.New("no entropy") }
	main()
	if !strings.Contains(fatal, "Failed to generate admin key") {
		t.Fatalf("unexpected fatal message: %q", fatal)
	}

	os.Args = []string{"hash-gen", "k"}
	generateHashFn = func(string) (string, error) { return "", errors.New("cost too high") }
	main()
	if !strings.Contains(fatal, "Failed to hash admin key") {
		t.Fatalf("unexpected fatal message: %q", fatal)
	}
}
