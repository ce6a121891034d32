package validator

import (
	"net/mail"
	"strings"

	"coach-portal-api/modules/auth/dto"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationResult struct {
	Errors []FieldError `json:"errors,omitempty"`
}

func (r *ValidationResult) HasError() bool {
	return len(r.Errors) > 0
}

func (r *ValidationResult) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

func ValidateRegisterRequest(req *dto.RegisterRequest) *ValidationResult {
	result := &ValidationResult{}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		result.add("email", "A valid email address is required")
	}
	if len(req.Password) < 8 {
		result.add("password", "Password must be at least 8 characters")
	}
	if strings.TrimSpace(req.FullName) == "" {
		result.add("full_name", "Full name is required")
	}
	return result
}

func ValidateLoginRequest(req *dto.LoginRequest) *ValidationResult {
	result := &ValidationResult{}
	if strings.TrimSpace(req.Email) == "" {
		result.add("email", "Email is required")
	}
	if req.Password == "" {
		result.add("password", "Password is required")
	}
	return result
}

func ValidateRefreshTokenRequest(req *dto.RefreshTokenRequest) *ValidationResult {
	result := &ValidationResult{}
	if req.RefreshToken == "" {
		result.add("refresh_token", "Refresh token is required")
	}
	return result
}
