package jwt

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, err := svc.GenerateTokenUser("3f1c1a3e-0000-4000-8000-000000000001", domain.RoleAdmin)
	require.NoError(t, err)

	id, role, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "3f1c1a3e-0000-4000-8000-000000000001", id)
	assert.Equal(t, domain.RoleAdmin, role)

	exp, err := svc.GetTokenExpiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)
}

func TestExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", -time.Minute)

	token, err := svc.GenerateTokenUser("user", domain.RoleGuest)
	require.NoError(t, err)

	_, _, err = svc.GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokenSignedWithOtherSecret(t *testing.T) {
	token, err := NewJWTService("one", time.Hour).GenerateTokenUser("user", domain.RoleGuest)
	require.NoError(t, err)

	_, _, err = NewJWTService("two", time.Hour).GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, _, err = NewJWTService("one", time.Hour).GetUserIDByToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestBlacklistKeyIsStableAndOpaque(t *testing.T) {
	key := blacklistKey("abc")
	assert.Equal(t, key, blacklistKey("abc"))
	assert.NotEqual(t, key, blacklistKey("abd"))
	assert.True(t, strings.HasPrefix(key, blacklistKeyPrefix))
	assert.NotContains(t, key, "abc")
}

func TestNoopBlacklist(t *testing.T) {
	bl := NewNoopTokenBlacklist()
	require.NoError(t, bl.Revoke(context.Background(), "token", time.Minute))

	revoked, err := bl.IsRevoked(context.Background(), "token")
	require.NoError(t, err)
	assert.False(t, revoked)
}
