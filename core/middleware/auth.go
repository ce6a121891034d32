package middleware

import (
	"coach-portal-api/core/cache"
	"coach-portal-api/core/constants"
	"coach-portal-api/core/controller"
	"coach-portal-api/core/errors"
	"coach-portal-api/core/logger"
	"coach-portal-api/core/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "user_role"
)

type Middleware struct {
	cache cache.Cache
}

func NewMiddleware(cache cache.Cache) *Middleware {
	return &Middleware{cache: cache}
}

// AuthMiddleware validates the bearer token, rejects blacklisted tokens and
// stores the caller's identity on the echo context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := utils.GetTokenFromHeader(c)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing or malformed authorization header")
			}

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
				if err != nil {
					logger.Error("Middleware:Auth:IsTokenBlacklisted:Error", "error", err)
					return controller.NewErrorResponse(500, errors.ErrInternalServer, "failed to validate token")
				}
				if blacklisted {
					return controller.NewErrorResponse(401, errors.ErrUnauthorized, "token has been revoked")
				}
			}

			tokenData, err := utils.ValidateAndParseToken(token)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "invalid or expired token")
			}
			if tokenData.Scope != constants.ScopeTokenAccess {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "token scope is not valid for this endpoint")
			}

			c.Set(ContextKeyUserID, tokenData.UserID)
			c.Set(ContextKeyRole, tokenData.Role)
			return next(c)
		}
	}
}

// AdminMiddleware restricts a route group to admin users. Must run after
// AuthMiddleware.
func (m *Middleware) AdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if GetUserRole(c) != constants.RoleAdmin {
				return controller.NewErrorResponse(403, errors.ErrForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

// GetUserID returns the authenticated caller's id. It fails when the request
// never went through AuthMiddleware.
func GetUserID(c echo.Context) (uuid.UUID, error) {
	if id, ok := c.Get(ContextKeyUserID).(uuid.UUID); ok {
		return id, nil
	}
	return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "no authenticated user on request", nil)
}

func GetUserRole(c echo.Context) string {
	if role, ok := c.Get(ContextKeyRole).(string); ok {
		return role
	}
	return ""
}
