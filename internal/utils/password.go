package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// LegacyHash is the unsalted SHA-256 hex digest older deployments stored.
// It is only used to verify existing accounts.
func LegacyHash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// IsLegacyHash reports whether hash looks like a LegacyHash value.
func IsLegacyHash(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

// VerifyPassword compares a stored hash with a plain password.  legacy is
// true when the stored hash is a LegacyHash, so callers can upgrade it.
func VerifyPassword(hash, plain string) (ok, legacy bool) {
	if IsLegacyHash(hash) {
		want := LegacyHash(plain)
		return subtle.ConstantTimeCompare([]byte(hash), []byte(want)) == 1, true
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil, false
}
