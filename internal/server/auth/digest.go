package auth

import (
	"crypto/subtle"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is the hex BLAKE3-256 of a token value: what gets stored in place
// of the value.
func Digest(value string) string {
	sum := blake3.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// DigestEqual compares two digests in constant time.
func DigestEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
