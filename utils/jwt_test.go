package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(accessTTL, refreshTTL time.Duration) *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", accessTTL, refreshTTL)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tm := newTestManager(time.Minute, time.Hour)

	token, err := tm.GenerateAccessToken("user-1", "a@b.com", "user")
	require.NoError(t, err)

	claims, err := tm.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	tm := newTestManager(time.Minute, time.Hour)

	refresh, err := tm.GenerateRefreshToken("user-1", "a@b.com", "user")
	require.NoError(t, err)

	_, err = tm.ParseAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := tm.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestExpiredToken(t *testing.T) {
	tm := newTestManager(-time.Minute, time.Hour)

	token, err := tm.GenerateAccessToken("user-1", "a@b.com", "user")
	require.NoError(t, err)

	_, err = tm.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestGarbageToken(t *testing.T) {
	tm := newTestManager(time.Minute, time.Hour)
	_, err := tm.ParseAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
