package utils

import (
	"testing"

	"coach-portal-api/core/config"
	"coach-portal-api/core/constants"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestConfig(t *testing.T) {
	t.Helper()
	config.Set(&config.Config{
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenTTL:  60,
			RefreshTokenTTL: 60 * 24,
		},
	})
}

func TestGenerateAndParseToken(t *testing.T) {
	setupTestConfig(t)

	userID := uuid.New()
	token, err := GenerateToken(userID, "coach@example.com", constants.RoleAdmin, constants.ScopeTokenAccess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	data, err := ValidateAndParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, data.UserID)
	assert.Equal(t, "coach@example.com", data.Email)
	assert.Equal(t, constants.RoleAdmin, data.Role)
	assert.Equal(t, constants.ScopeTokenAccess, data.Scope)
}

func TestParseTokenWithWrongSecret(t *testing.T) {
	setupTestConfig(t)

	token, err := GenerateToken(uuid.New(), "coach@example.com", constants.RoleClient, constants.ScopeTokenAccess)
	require.NoError(t, err)

	config.Set(&config.Config{
		JWT: config.JWTConfig{Secret: "other-secret", AccessTokenTTL: 60, RefreshTokenTTL: 60},
	})
	_, err = ValidateAndParseToken(token)
	assert.Error(t, err)
}

func TestParseGarbageToken(t *testing.T) {
	setupTestConfig(t)

	_, err := ValidateAndParseToken("not-a-token")
	assert.Error(t, err)
}

func TestRefreshScopeSurvivesRoundTrip(t *testing.T) {
	setupTestConfig(t)

	token, err := GenerateToken(uuid.New(), "client@example.com", constants.RoleClient, constants.ScopeTokenRefresh)
	require.NoError(t, err)

	data, err := ValidateAndParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, constants.ScopeTokenRefresh, data.Scope)
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, ComparePassword(hash, "s3cret-password"))
	assert.False(t, ComparePassword(hash, "wrong-password"))
}
