package iam

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/gdpranavl/SanjeevanAI/pkg/types"
)

// BcryptPasswordManager implements password hashing with bcrypt
type BcryptPasswordManager struct {
	cost int
}

// NewPasswordManager creates a new password manager
func NewPasswordManager() *BcryptPasswordManager {
	return &BcryptPasswordManager{
		cost: bcrypt.DefaultCost,
	}
}

// Hash hashes a password using bcrypt
func (pm *BcryptPasswordManager) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), pm.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Verify compares a plaintext password against its stored hash. A
// mismatch returns an authentication error, never the raw bcrypt error.
func (pm *BcryptPasswordManager) Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return types.NewAuthenticationError(types.ErrCodeAuthenticationFailed, "Invalid email or password")
	}
	return nil
}
