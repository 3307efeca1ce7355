package crypto

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/myflix/backend/internal/common/constants"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. A malformed hash is a
	// mismatch, never an error.
	Verify(password, hash string) bool
}

// BcryptHasher salts every hash, so hashing the same password twice yields
// different outputs that both verify. Comparison is constant time.
type BcryptHasher struct{}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), constants.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
