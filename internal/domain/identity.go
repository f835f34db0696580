package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// DefaultScope is the cache namespace used when no identity is active.
const DefaultScope = "default"

// ScopeID derives the cache-namespace key for an identity address. The
// same address always yields the same scope and the raw address never
// appears in cache keys or on disk. An empty address maps to DefaultScope.
func ScopeID(address string) string {
	normalized := strings.ToLower(strings.TrimSpace(address))
	if normalized == "" {
		return DefaultScope
	}
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}
