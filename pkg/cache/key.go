package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CacheKey identifies a cached monbillet API response.
type CacheKey struct {
	// Path is the request URL suffix after the base URL, query included
	// (e.g. "events?showPastEvents=only").
	Path string

	// Token is the API token the response was fetched with ("" for none).
	Token string
}

// KeyFor builds the cache key for a request path fetched with token.
func KeyFor(path, token string) CacheKey {
	return CacheKey{Path: path, Token: token}
}

// String returns the hex SHA-256 digest addressing the entry.
//
// The digest covers lowercase(token + NUL + path), so responses are isolated
// per credential and the token never shows up in a file path or Redis key.
// Tokens that differ only in case share an entry.
//
// Example:
//
//	KeyFor("events", "").String() // 64 hex characters
func (k CacheKey) String() string {
	sum := sha256.Sum256([]byte(strings.ToLower(k.Token + "\x00" + k.Path)))
	return hex.EncodeToString(sum[:])
}
