package service

import (
	"context"
	"time"

	"coach-portal-api/core/errors"
	"coach-portal-api/core/logger"
	"coach-portal-api/modules/calendar/entity"

	"golang.org/x/oauth2"
)

// getValidToken returns an access token usable right now. A stored token whose
// expiry lies in the future is returned as-is without touching the network;
// otherwise the refresh grant runs and the rotated tokens are persisted.
func (s *calendarService) getValidToken(ctx context.Context, conn *entity.CalendarConnection) (string, *errors.AppError) {
	if conn.TokenExpiresAt != nil && conn.TokenExpiresAt.After(s.now()) {
		return conn.AccessToken, nil
	}

	if conn.RefreshToken == nil || *conn.RefreshToken == "" {
		return "", errors.NewAppError(errors.ErrTokenRefreshFailed, "calendar token expired and no refresh token is stored", nil)
	}

	cfg, appErr := s.oauthConfig(ctx, conn.Provider)
	if appErr != nil {
		return "", appErr
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	stale := &oauth2.Token{
		RefreshToken: *conn.RefreshToken,
		Expiry:       s.now().Add(-time.Minute),
	}
	fresh, err := cfg.TokenSource(ctx, stale).Token()
	if err != nil {
		logger.Error("CalendarService:getValidToken refresh failed", "provider", conn.Provider, "user_id", conn.UserID, "error", err)
		return "", errors.NewAppError(errors.ErrTokenRefreshFailed, "calendar token refresh failed", err)
	}

	conn.AccessToken = fresh.AccessToken
	if !fresh.Expiry.IsZero() {
		expiry := fresh.Expiry
		conn.TokenExpiresAt = &expiry
	}
	// Outlook rotates refresh tokens on every grant; keep the newest one.
	if fresh.RefreshToken != "" && fresh.RefreshToken != *conn.RefreshToken {
		rotated := fresh.RefreshToken
		conn.RefreshToken = &rotated
	}

	if err := s.repo.UpdateConnectionTokens(ctx, conn); err != nil {
		logger.Error("CalendarService:getValidToken persist failed", "provider", conn.Provider, "user_id", conn.UserID, "error", err)
	}
	return conn.AccessToken, nil
}
