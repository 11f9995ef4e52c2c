// Package codehash derives the at-rest representation of a one-time code.
//
// Digests are deterministic so stores can match and conditionally delete by
// equality, while plaintext codes never reach the backing store.
package codehash

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Hasher computes keyed BLAKE2b-256 digests bound to a phone number.
type Hasher struct {
	key []byte
}

// New returns a Hasher. An empty key produces unkeyed digests.
// Keys longer than 64 bytes are rejected by blake2b, so they are truncated.
func New(key string) *Hasher {
	k := []byte(key)
	if len(k) > blake2b.Size {
		k = k[:blake2b.Size]
	}
	return &Hasher{key: k}
}

// Sum returns the hex digest of phone|code.
func (h *Hasher) Sum(phoneNumber, code string) string {
	// New256 only fails for keys over 64 bytes, ruled out in New.
	d, _ := blake2b.New256(h.key)
	d.Write([]byte(phoneNumber))
	d.Write([]byte{'|'})
	d.Write([]byte(code))
	return hex.EncodeToString(d.Sum(nil))
}
