package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// ShortHash returns the first 8 hex characters of the sha256 digest of s.
// Used to derive stable veth pair names from a VLAN mapping string.
func ShortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:8]
}
