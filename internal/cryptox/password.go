// Package cryptox holds the password hashing used for user credentials.
// Hashes are produced with bcrypt, which salts every hash and compares
// digests in constant time.
package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt work factor used by the server.
	DefaultCost = bcrypt.DefaultCost

	// MaxPasswordLength is the longest password, in bytes, bcrypt accepts.
	MaxPasswordLength = 72
)

// HashPassword returns the bcrypt hash of password at the given cost.
// Costs outside bcrypt's range fall back to DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. A mismatch is not an
// error; only a malformed hash is.
func CheckPassword(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("compare password: %w", err)
	}
}
