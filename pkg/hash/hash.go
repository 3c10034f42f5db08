// Package hash provides content fingerprinting helpers used for HTTP
// response caching.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// Fingerprint returns the first length characters of SHA256(input), suitable
// as a weak ETag value. A length longer than the full digest returns the
// full digest.
func Fingerprint(input string, length int) string {
	full := SHA256Hex(input)
	if length > len(full) {
		return full
	}
	return full[:length]
}
