package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	now := time.Now()
	tok, err := NewAccessToken("s3cret", 42, "OWNER", 15*time.Minute, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(15*time.Minute), tok.Exp, time.Second)

	claims, err := ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "OWNER", claims.Role)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	_, err = ParseAccessToken("other", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessToken_Expired(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 1, "CUSTOMER", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = ParseAccessToken("s3cret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessToken_RejectsForeignIssuer(t *testing.T) {
	claims := Claims{Role: "OWNER", RegisteredClaims: jwt.RegisteredClaims{
		Issuer: "someone-else", Subject: "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = ParseAccessToken("s3cret", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken(t *testing.T) {
	now := time.Now()
	a, err := NewRefreshToken(24*time.Hour, now)
	require.NoError(t, err)
	b, err := NewRefreshToken(24*time.Hour, now)
	require.NoError(t, err)
	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Len(t, HashRefreshRaw(a.Raw), 64)
	assert.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(h, "correct horse"))
	assert.False(t, VerifyPassword(h, "wrong horse"))

	_, err = HashPassword("short", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrWeakPassword)
}
