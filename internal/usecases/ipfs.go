package usecases

import "strings"

const ipfsScheme = "ipfs://"

// RewriteIPFS maps ipfs://<cid>[/path] and ipfs://ipfs/<cid>[/path] onto
// <gateway>/ipfs/<cid>[/path]. Any other value is returned unchanged.
func RewriteIPFS(uri, gateway string) string {
	if !strings.HasPrefix(uri, ipfsScheme) {
		return uri
	}
	path := strings.TrimPrefix(uri, ipfsScheme)
	path = strings.TrimPrefix(path, "ipfs/")
	path = strings.TrimLeft(path, "/")
	return strings.TrimRight(gateway, "/") + "/ipfs/" + path
}

func isFetchableURI(uri string) bool {
	return strings.HasPrefix(uri, "http://") ||
		strings.HasPrefix(uri, "https://") ||
		strings.HasPrefix(uri, ipfsScheme)
}
