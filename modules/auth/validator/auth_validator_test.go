package validator

import (
	"testing"

	"coach-portal-api/modules/auth/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegisterRequest(t *testing.T) {
	result := ValidateRegisterRequest(&dto.RegisterRequest{
		Email:    "client@example.com",
		Password: "password123",
		FullName: "Client Name",
	})
	assert.False(t, result.HasError())
}

func TestValidateRegisterRequestCollectsAllErrors(t *testing.T) {
	result := ValidateRegisterRequest(&dto.RegisterRequest{
		Email:    "not-an-email",
		Password: "short",
		FullName: "   ",
	})
	require.True(t, result.HasError())
	require.Len(t, result.Errors, 3)

	fields := make([]string, 0, len(result.Errors))
	for _, fieldErr := range result.Errors {
		fields = append(fields, fieldErr.Field)
	}
	assert.ElementsMatch(t, []string{"email", "password", "full_name"}, fields)
}

func TestValidateRegisterRequestPasswordBoundary(t *testing.T) {
	result := ValidateRegisterRequest(&dto.RegisterRequest{
		Email:    "client@example.com",
		Password: "12345678",
		FullName: "Client Name",
	})
	assert.False(t, result.HasError())
}

func TestValidateLoginRequest(t *testing.T) {
	result := ValidateLoginRequest(&dto.LoginRequest{Email: "  ", Password: ""})
	require.True(t, result.HasError())
	assert.Len(t, result.Errors, 2)

	result = ValidateLoginRequest(&dto.LoginRequest{Email: "client@example.com", Password: "secret"})
	assert.False(t, result.HasError())
}

func TestValidateRefreshTokenRequest(t *testing.T) {
	result := ValidateRefreshTokenRequest(&dto.RefreshTokenRequest{})
	require.True(t, result.HasError())
	assert.Equal(t, "refresh_token", result.Errors[0].Field)
}
