package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteIPFS(t *testing.T) {
	gw := "https://gw.example/"
	assert.Equal(t, "https://gw.example/ipfs/bafy123", RewriteIPFS("ipfs://bafy123", gw))
	assert.Equal(t, "https://gw.example/ipfs/bafy123/7.json", RewriteIPFS("ipfs://bafy123/7.json", gw))
	assert.Equal(t, "https://gw.example/ipfs/bafy456", RewriteIPFS("ipfs://ipfs/bafy456", gw))
	assert.Equal(t, "https://cdn.example/a.png", RewriteIPFS("https://cdn.example/a.png", gw))
	assert.Equal(t, "", RewriteIPFS("", gw))
}

func TestIsFetchableURI(t *testing.T) {
	assert.True(t, isFetchableURI("http://x"))
	assert.True(t, isFetchableURI("https://x"))
	assert.True(t, isFetchableURI("ipfs://x"))
	assert.False(t, isFetchableURI("ar://x"))
	assert.False(t, isFetchableURI("data:application/json;base64,e30="))
}
