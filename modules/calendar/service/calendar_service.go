package service

import (
	"context"
	"net/http"
	"time"

	"coach-portal-api/core/errors"
	"coach-portal-api/core/httpclient"
	"coach-portal-api/core/logger"
	"coach-portal-api/modules/calendar/dto"
	"coach-portal-api/modules/calendar/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/microsoft"
)

const (
	googleAPIBase     = "https://www.googleapis.com/calendar/v3"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	graphAPIBase      = "https://graph.microsoft.com/v1.0"

	// Sync window: keep recent history visible, bound forward provider volume.
	syncLookbackDays  = 30
	syncLookaheadDays = 90

	// Every pushed event is exactly one hour in this timezone.
	eventDuration = time.Hour
	eventTimeZone = "Europe/Paris"
)

// SyncBooking is the reconciler's read-only view of a booking.
type SyncBooking struct {
	ID          uuid.UUID
	ClientName  string
	SessionType string
	Goals       string
	SessionDate time.Time
	Status      string
}

// BookingSource provides the bookings to reconcile. Implemented by the
// booking repository; faked in tests.
type BookingSource interface {
	GetBookingsForSync(ctx context.Context, from, to time.Time) ([]SyncBooking, error)
}

type SyncResult struct {
	Pushed int
	Errors int
}

type CalendarService interface {
	GetAuthURL(ctx context.Context, provider string, userID uuid.UUID) (string, *errors.AppError)
	HandleCallback(ctx context.Context, provider, code, state string) error
	Status(ctx context.Context, userID uuid.UUID) ([]dto.ConnectionInfo, *errors.AppError)
	Disconnect(ctx context.Context, userID uuid.UUID, provider string) *errors.AppError
	Sync(ctx context.Context, userID uuid.UUID, provider string) (*SyncResult, *errors.AppError)
}

type calendarService struct {
	repo     repository.CalendarRepository
	bookings BookingSource

	// Idempotent provider calls (GET/PATCH) ride the retry client; event
	// creation and token grants go out exactly once.
	retry      *httpclient.RetryClient
	httpClient *http.Client

	// Provider endpoints, overridable in tests.
	googleAPIBase     string
	googleUserInfoURL string
	graphAPIBase      string
	googleEndpoint    oauth2.Endpoint
	outlookEndpoint   oauth2.Endpoint

	// serverBaseURL hosts the OAuth callback routes; frontendBaseURL is
	// where the callback redirects the browser afterwards.
	serverBaseURL   string
	frontendBaseURL string

	now func() time.Time
}

func NewCalendarService(repo repository.CalendarRepository, bookings BookingSource, serverBaseURL, frontendBaseURL string) CalendarService {
	return &calendarService{
		repo:              repo,
		bookings:          bookings,
		retry:             httpclient.New(),
		httpClient:        &http.Client{Timeout: 30 * time.Second},
		googleAPIBase:     googleAPIBase,
		googleUserInfoURL: googleUserInfoURL,
		graphAPIBase:      graphAPIBase,
		googleEndpoint:    google.Endpoint,
		outlookEndpoint:   microsoft.AzureADEndpoint("common"),
		serverBaseURL:     serverBaseURL,
		frontendBaseURL:   frontendBaseURL,
		now:               time.Now,
	}
}

// Status returns the caller's connections without exposing any tokens.
func (s *calendarService) Status(ctx context.Context, userID uuid.UUID) ([]dto.ConnectionInfo, *errors.AppError) {
	connections, err := s.repo.GetConnectionsByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load calendar connections", err)
	}

	infos := make([]dto.ConnectionInfo, 0, len(connections))
	for _, conn := range connections {
		info := dto.ConnectionInfo{
			Provider:    conn.Provider,
			Email:       conn.CalendarEmail,
			ConnectedAt: conn.CreatedAt.Format(time.RFC3339),
		}
		if conn.TokenExpiresAt != nil {
			expires := conn.TokenExpiresAt.Format(time.RFC3339)
			info.TokenExpiresAt = &expires
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Disconnect removes the connection for (caller, provider). Idempotent:
// disconnecting a provider that was never connected succeeds.
func (s *calendarService) Disconnect(ctx context.Context, userID uuid.UUID, provider string) *errors.AppError {
	if err := s.repo.DeleteConnection(ctx, userID, provider); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to disconnect calendar", err)
	}
	logger.Info("CalendarService:Disconnect", "user_id", userID, "provider", provider)
	return nil
}
