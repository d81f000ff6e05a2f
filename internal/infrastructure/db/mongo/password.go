package mongo

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/usermgmt/user-management-api/internal/core/domain"
)

const minPasswordLength = 8

// hashPassword applies the store's password policy and returns a bcrypt hash
// (salted, constant-time comparable). Plaintext never leaves this file.
func hashPassword(raw string) (string, error) {
	if len(raw) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
