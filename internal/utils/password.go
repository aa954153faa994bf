package utils

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is the shortest password accepted at registration.
const MinPasswordLen = 8

// ErrWeakPassword rejects passwords that are too short or exceed bcrypt's
// 72 byte input limit.
var ErrWeakPassword = errors.New("password must be 8 to 72 bytes")

// HashPassword returns the bcrypt hash of plain at the given cost. A cost
// outside bcrypt's range falls back to bcrypt.DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
	if utf8.RuneCountInString(plain) < MinPasswordLen || len(plain) > 72 {
		return "", ErrWeakPassword
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
