package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute, time.Hour)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "owner@example.com", []string{"user"}, []string{"manage-documents"})
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, []string{"manage-documents"}, claims.Permissions)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTManager_TokenIDsAreUnique(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute, time.Hour)
	userID := uuid.New()

	a, err := m.GenerateAccessToken(userID, "a@example.com", nil, nil)
	require.NoError(t, err)
	b, err := m.GenerateAccessToken(userID, "a@example.com", nil, nil)
	require.NoError(t, err)

	ca, err := m.ValidateAccessToken(a)
	require.NoError(t, err)
	cb, err := m.ValidateAccessToken(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-one", time.Minute, time.Hour)
	verifier := NewJWTManager("secret-two", time.Minute, time.Hour)

	token, err := issuer.GenerateAccessToken(uuid.New(), "x@example.com", nil, nil)
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute, -time.Minute)

	token, err := m.GenerateAccessToken(uuid.New(), "x@example.com", nil, nil)
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)

	refresh, err := m.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)
	_, err = m.ValidateRefreshToken(refresh)
	assert.Error(t, err)
}

func TestJWTManager_TokenPair(t *testing.T) {
	m := NewJWTManager("test-secret", 15*time.Minute, time.Hour)
	userID := uuid.New()

	pair, err := m.GenerateTokenPair(userID, "x@example.com", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	got, err := m.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestJWTManager_TokenKindsAreNotInterchangeable(t *testing.T) {
	m := NewJWTManager("test-secret", time.Minute, time.Hour)

	pair, err := m.GenerateTokenPair(uuid.New(), "x@example.com", nil, nil)
	require.NoError(t, err)

	_, err = m.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err)
	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err)
}
