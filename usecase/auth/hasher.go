package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns plaintext passwords into stored digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// SaltedSHA256 is the legacy scheme: hex(sha256(salt + plaintext)) with one
// salt for every account. Equal passwords therefore share a digest; prefer
// Bcrypt for new deployments.
type SaltedSHA256 struct {
	salt string
}

func NewSaltedSHA256(salt string) *SaltedSHA256 {
	return &SaltedSHA256{salt: salt}
}

func (h *SaltedSHA256) Hash(plaintext string) (string, error) {
	return h.digest(plaintext), nil
}

func (h *SaltedSHA256) Verify(plaintext, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(h.digest(plaintext)), []byte(digest)) == 1
}

func (h *SaltedSHA256) digest(plaintext string) string {
	sum := sha256.Sum256([]byte(h.salt + plaintext))
	return hex.EncodeToString(sum[:])
}

// Bcrypt salts every digest individually.
type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (h *Bcrypt) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

func (h *Bcrypt) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// NewHasher selects a scheme by name: "salted-sha256" or "bcrypt".
func NewHasher(scheme, salt string) (PasswordHasher, error) {
	switch scheme {
	case "", "salted-sha256":
		return NewSaltedSHA256(salt), nil
	case "bcrypt":
		return NewBcrypt(bcrypt.DefaultCost), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", scheme)
	}
}
