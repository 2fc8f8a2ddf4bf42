// Package auth derives non-secret fingerprints from API credentials so runs
// can be told apart in logs and the journal without storing the token.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// fingerprintLen is how many hex characters of the hash are shown in logs.
const fingerprintLen = 12

// HashKey returns the SHA-256 hex digest of the trimmed key.
func HashKey(key string) string {
	key = strings.TrimSpace(key)

	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

// Fingerprint returns a short prefix of HashKey suitable for log lines.
func Fingerprint(key string) string {
	return HashKey(key)[:fingerprintLen]
}
