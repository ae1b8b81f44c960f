// ABOUTME: Password hashing and verification using bcrypt
// ABOUTME: Provides a dummy-hash compare so login timing doesn't leak account existence

package auth

import (
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a valid bcrypt hash of a throwaway password. Login flows
// compare against it when the email doesn't resolve, so the request costs
// the same whether or not the account exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword derives a bcrypt hash from a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
// A malformed hash counts as a mismatch; it indicates corrupt stored data,
// not a wrong password, so it is logged for diagnostics.
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true
	}
	if err != bcrypt.ErrMismatchedHashAndPassword {
		slog.Default().Debug("password hash comparison failed", "error", err)
	}
	return false
}

// CompareDummy runs a bcrypt comparison against a fixed hash. Call it on
// the unknown-email login path to keep timing in line with the known-email
// path.
func CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
