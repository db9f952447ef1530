// Package password implements salted PBKDF2-HMAC-SHA256 password digests.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 work factor.
	DefaultIterations = 100000
	// saltBytes of randomness, hex-encoded into the stored salt.
	saltBytes = 32
	keyLength = sha256.Size
)

// Hasher derives digests as hex(PBKDF2-HMAC-SHA256(password, salt, iterations)).
// The hex salt string itself is the KDF salt input.
type Hasher struct {
	iterations int
}

// NewHasher returns a Hasher using DefaultIterations.
func NewHasher() *Hasher {
	return &Hasher{iterations: DefaultIterations}
}

// Hash returns a fresh random salt and the digest of password under it.
func (h *Hasher) Hash(password string) (digest, salt string) {
	b := make([]byte, saltBytes)
	// crypto/rand.Read never returns an error.
	_, _ = rand.Read(b)
	salt = hex.EncodeToString(b)
	return h.derive(password, salt), salt
}

// Verify recomputes the digest of password under salt and compares it to
// digest in constant time.
func (h *Hasher) Verify(password, digest, salt string) bool {
	if digest == "" || salt == "" {
		return false
	}
	computed := h.derive(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

func (h *Hasher) derive(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), h.iterations, keyLength, sha256.New)
	return hex.EncodeToString(key)
}
