// Package sha256 provides SHA-256 hashing utilities for cache keys.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hex returns the hex-encoded SHA-256 digest of s.
//
// Cache keys carry full URLs, which can exceed memcached's 250-byte key
// limit and may contain characters the protocol forbids; hashing keeps
// keys bounded and safe for any backend.
func Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
