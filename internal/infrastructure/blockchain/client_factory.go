package blockchain

import (
	"errors"
	"fmt"
	"sync"
)

var ErrFactoryClosed = errors.New("client factory closed")

// ClientFactory keeps one EVM client per RPC URL for the life of the
// process. The server and the CLI tools dial through it and close it once
// on shutdown.
type ClientFactory struct {
	mu         sync.RWMutex
	evmClients map[string]*EVMClient
	dial       func(rpcURL string) (*EVMClient, error)
	closed     bool
}

func NewClientFactory() *ClientFactory {
	return &ClientFactory{
		evmClients: make(map[string]*EVMClient),
		dial:       NewEVMClient,
	}
}

// GetEVMClient returns the cached client for rpcURL, dialling it on first
// use. Concurrent first calls dial once.
func (f *ClientFactory) GetEVMClient(rpcURL string) (*EVMClient, error) {
	f.mu.RLock()
	client, ok := f.evmClients[rpcURL]
	closed := f.closed
	f.mu.RUnlock()
	if closed {
		return nil, ErrFactoryClosed
	}
	if ok {
		return client, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrFactoryClosed
	}
	if client, ok := f.evmClients[rpcURL]; ok {
		return client, nil
	}

	newClient, err := f.dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create EVM client: %w", err)
	}

	f.evmClients[rpcURL] = newClient
	return newClient, nil
}

// Len reports how many RPC URLs have a live client.
func (f *ClientFactory) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.evmClients)
}

// Close closes every cached client. Later dials fail with ErrFactoryClosed.
func (f *ClientFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for url, c := range f.evmClients {
		c.Close()
		delete(f.evmClients, url)
	}
	f.closed = true
	return nil
}
