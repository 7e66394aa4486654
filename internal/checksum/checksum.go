// Package checksum derives content digests for optimistic concurrency:
// clients echo a note's checksum back via If-Match when writing.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag wraps a digest in the quotes HTTP entity tags require.
func ETag(sum string) string {
	return `"` + sum + `"`
}
