// Package digest implements the fixed password digest shared with the
// persisted credential store. The stored column holds hex-encoded SHA-256
// of the plaintext, so the digest must stay deterministic and unsalted.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA-256 digest of the plaintext.
func SHA256Hex(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
