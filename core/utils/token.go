package utils

import (
	"fmt"
	"time"

	"coach-portal-api/core/config"
	"coach-portal-api/core/constants"
	"coach-portal-api/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TokenData is the decoded claims payload of an application JWT.
type TokenData struct {
	UserID uuid.UUID
	Email  string
	Role   string
	Scope  string
}

type appClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed JWT for the given user and scope. Access and
// refresh scopes get their TTLs from config.
func GenerateToken(userID uuid.UUID, email, role, scope string) (string, error) {
	cfg, ok := config.GetSafe()
	if !ok {
		return "", fmt.Errorf("config not initialized")
	}

	ttl := time.Duration(cfg.JWT.AccessTokenTTL) * time.Minute
	if scope == constants.ScopeTokenRefresh {
		ttl = time.Duration(cfg.JWT.RefreshTokenTTL) * time.Minute
	}

	now := time.Now()
	claims := appClaims{
		Email: email,
		Role:  role,
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ValidateAndParseToken verifies the signature and expiry of a JWT and
// returns its decoded claims.
func ValidateAndParseToken(tokenString string) (*TokenData, error) {
	cfg, ok := config.GetSafe()
	if !ok {
		return nil, fmt.Errorf("config not initialized")
	}

	claims := &appClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid token", err)
	}
	if !token.Valid {
		return nil, errors.NewAppError(errors.ErrTokenExpired, "token is not valid", nil)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid subject claim", err)
	}

	return &TokenData{
		UserID: userID,
		Email:  claims.Email,
		Role:   claims.Role,
		Scope:  claims.Scope,
	}, nil
}

// GetTokenFromHeader extracts the bearer token from the Authorization header.
func GetTokenFromHeader(c echo.Context) (string, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", errors.NewAppError(errors.ErrMissingAuthorizationHeader, "no token provided", nil)
	}
	if len(header) > 7 && header[:7] == "Bearer " {
		return header[7:], nil
	}
	return "", errors.NewAppError(errors.ErrInvalidTokenFormat, "authorization header is not a bearer token", nil)
}
