package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"coach-portal-api/core/errors"
	"coach-portal-api/core/logger"
	"coach-portal-api/modules/calendar/dto"
	"coach-portal-api/modules/calendar/entity"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

var (
	googleScopes = []string{
		"https://www.googleapis.com/auth/calendar",
		"https://www.googleapis.com/auth/userinfo.email",
	}
	outlookScopes = []string{
		"Calendars.ReadWrite",
		"User.Read",
		"offline_access",
	}
)

func (s *calendarService) oauthConfig(ctx context.Context, provider string) (*oauth2.Config, *errors.AppError) {
	credential, err := s.repo.GetCredentialByProvider(ctx, provider)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load calendar credentials", err)
	}
	if credential == nil {
		return nil, errors.NewAppError(errors.ErrConfigurationMissing, fmt.Sprintf("%s calendar is not configured", provider), nil)
	}

	cfg := &oauth2.Config{
		ClientID:     credential.ClientID,
		ClientSecret: credential.ClientSecret,
	}
	switch provider {
	case dto.ProviderGoogle:
		cfg.Endpoint = s.googleEndpoint
		cfg.Scopes = googleScopes
		cfg.RedirectURL = s.serverBaseURL + "/api/v1/public/calendar/google-calendar-callback"
	case dto.ProviderOutlook:
		cfg.Endpoint = s.outlookEndpoint
		cfg.Scopes = outlookScopes
		cfg.RedirectURL = s.serverBaseURL + "/api/v1/public/calendar/outlook-calendar-callback"
	default:
		return nil, errors.NewAppError(errors.ErrInvalidInput, "unsupported calendar provider", nil)
	}
	return cfg, nil
}

// GetAuthURL builds the provider consent URL. The state parameter carries the
// user id so the callback, which arrives unauthenticated, can attribute the
// connection.
func (s *calendarService) GetAuthURL(ctx context.Context, provider string, userID uuid.UUID) (string, *errors.AppError) {
	cfg, appErr := s.oauthConfig(ctx, provider)
	if appErr != nil {
		return "", appErr
	}

	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOffline}
	if provider == dto.ProviderGoogle {
		// Google only re-issues a refresh token when consent is re-prompted.
		opts = append(opts, oauth2.SetAuthURLParam("prompt", "consent"))
	}
	return cfg.AuthCodeURL(userID.String(), opts...), nil
}

// HandleCallback exchanges the authorization code, resolves the calendar
// account's email and stores the connection for the user carried in state.
func (s *calendarService) HandleCallback(ctx context.Context, provider, code, state string) error {
	userID, err := uuid.Parse(state)
	if err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "invalid state parameter", err)
	}

	cfg, appErr := s.oauthConfig(ctx, provider)
	if appErr != nil {
		return appErr
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		logger.Error("CalendarService:HandleCallback exchange failed", "provider", provider, "error", err)
		return errors.NewAppError(errors.ErrUnauthorized, "authorization code exchange failed", err)
	}

	email, err := s.fetchAccountEmail(ctx, provider, token.AccessToken)
	if err != nil {
		logger.Error("CalendarService:HandleCallback identity lookup failed", "provider", provider, "error", err)
		return errors.NewAppError(errors.ErrProviderRequest, "failed to resolve calendar account", err)
	}

	conn := &entity.CalendarConnection{
		UserID:        userID,
		Provider:      provider,
		AccessToken:   token.AccessToken,
		CalendarEmail: email,
	}
	if token.RefreshToken != "" {
		refresh := token.RefreshToken
		conn.RefreshToken = &refresh
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		conn.TokenExpiresAt = &expiry
	}

	if err := s.repo.UpsertConnection(ctx, conn); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to store calendar connection", err)
	}
	logger.Info("CalendarService:HandleCallback connected", "user_id", userID, "provider", provider, "email", email)
	return nil
}

func (s *calendarService) fetchAccountEmail(ctx context.Context, provider, accessToken string) (string, error) {
	var url string
	switch provider {
	case dto.ProviderGoogle:
		url = s.googleUserInfoURL
	case dto.ProviderOutlook:
		url = s.graphAPIBase + "/me"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.retry.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity endpoint returned status %d", resp.StatusCode)
	}

	if provider == dto.ProviderGoogle {
		var body struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return "", err
		}
		return body.Email, nil
	}

	var body struct {
		Mail              string `json:"mail"`
		UserPrincipalName string `json:"userPrincipalName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Mail != "" {
		return body.Mail, nil
	}
	return body.UserPrincipalName, nil
}
