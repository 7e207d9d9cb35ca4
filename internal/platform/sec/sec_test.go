// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/poetpiece/internal/platform/sec"
)

func newTokenService(t *testing.T, issuer string) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, &key.PublicKey, issuer)
}

/*
TestTokenService_RoundTrip signs a token and reads the claims back.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t, "poetpiece.app")

	token, err := service.GenerateAccessToken("user-1", "keats", string(sec.RoleMember), time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "keats", claims.Username)
	assert.Equal(t, "member", claims.Role)
}

/*
TestTokenService_Rejects covers expired tokens and foreign signers.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTokenService(t, "poetpiece.app")

	t.Run("expired", func(t *testing.T) {
		token, err := service.GenerateAccessToken("user-1", "keats", "member", -time.Minute)
		require.NoError(t, err)
		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("other_key", func(t *testing.T) {
		other := newTokenService(t, "poetpiece.app")
		token, err := other.GenerateAccessToken("user-1", "keats", "member", time.Minute)
		require.NoError(t, err)
		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("other_issuer", func(t *testing.T) {
		stranger := newTokenService(t, "elsewhere")
		token, err := stranger.GenerateAccessToken("user-1", "keats", "member", time.Minute)
		require.NoError(t, err)
		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})
}

/*
TestPasswordHash verifies bcrypt hashing and comparison.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("nightingale")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("nightingale", hash))
	assert.False(t, sec.CheckPasswordHash("skylark", hash))
}

/*
TestSecureToken verifies token uniqueness and stable hashing.
*/
func TestSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, sec.HashToken(first), sec.HashToken(first))
	assert.Len(t, sec.HashToken(first), 64)
}

/*
TestUserRole_AtLeast checks the role ordering.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleMember))
	assert.False(t, sec.RoleMember.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("ghost").Valid())
}
