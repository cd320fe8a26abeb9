package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"go-finance-api/logger"

	"golang.org/x/crypto/bcrypt"
)

const saltSize = 32

// PasswordHasher turns a password and the account salt into a bcrypt hash.
// bcrypt reads at most 72 bytes, so password+salt is first reduced with
// SHA-256 to a fixed 44 byte string.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// GenerateSalt returns 32 bytes from crypto/rand, base64 encoded.
func (h *PasswordHasher) GenerateSalt() (string, error) {
	b := make([]byte, saltSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func (h *PasswordHasher) HashPassword(password, salt string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(password, salt), h.cost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword relies on bcrypt's constant-time comparison.
func (h *PasswordHasher) VerifyPassword(password, salt, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password, salt)) == nil
}

func prehash(password, salt string) []byte {
	sum := sha256.Sum256([]byte(password + salt))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
