package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/waveshop/waves-backend/internal/models"
)

// PasswordHasher owns the one-way transform applied to user credentials.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given bcrypt cost. A cost
// outside bcrypt's supported range falls back to the default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the salted bcrypt form of plaintext. Two calls with the same
// input produce different stored forms.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored form. A malformed
// stored form counts as a mismatch, not an error.
func (h *PasswordHasher) Verify(plaintext, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) == nil
}

// SetPassword hashes plaintext onto the user and marks the credential as
// touched. Registration and password changes go through here; every other
// save leaves the stored hash alone, so an already-hashed value is never
// hashed again.
func (h *PasswordHasher) SetPassword(u *models.User, plaintext string) error {
	hash, err := h.Hash(plaintext)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.PasswordTouched = true
	return nil
}
