// Package auth provides password hashing and bearer token services.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies login passwords using bcrypt.
// The produced hash encodes algorithm, cost, and salt together, so
// verification needs no side-channel state.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher with the given work factor.
// Costs outside bcrypt's supported range fall back to the default (10).
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash derives a salted hash of the plaintext with a fresh random salt.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash.
// Comparison is constant time. Malformed stored hashes verify as false
// rather than erroring, so a corrupt row can never authenticate.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
