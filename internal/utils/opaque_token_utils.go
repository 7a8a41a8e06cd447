package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashOpaqueToken generates a SHA256 hex digest of an opaque token (refresh
// or password-reset). Only the digest is ever stored.
func HashOpaqueToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return hex.EncodeToString(hasher.Sum(nil))
}

// CompareOpaqueTokenHash compares a raw token with its stored SHA256 digest.
func CompareOpaqueTokenHash(token string, storedHash string) bool {
	return HashOpaqueToken(token) == storedHash
}
