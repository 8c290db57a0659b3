// Package token persists the bearer credential and answers whether it is
// still usable. The client never holds the signing key, so claims are
// decoded without signature verification; the server stays the authority.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Store persists exactly one bearer token.
type Store interface {
	// Save overwrites any previous token.
	Save(token string) error
	// Read never fails; any backend problem reads as absent.
	Read() (string, bool)
	// Clear is idempotent.
	Clear() error
}

// Claims mirrors what the backend puts in the token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser()

// Decode reads the claims of token without verifying its signature.
func Decode(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// IsValid reports whether store holds a decodable token that expires after now.
// A token without an expiry is treated as invalid.
func IsValid(store Store, now time.Time) bool {
	raw, ok := store.Read()
	if !ok {
		return false
	}
	claims, err := Decode(raw)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.After(now)
}

// ErrEmptyToken is returned by Save for an empty string.
var ErrEmptyToken = errors.New("token: empty token")
