package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	coreEntity "coach-portal-api/core/entity"
	"coach-portal-api/core/errors"
	"coach-portal-api/core/httpclient"
	"coach-portal-api/modules/calendar/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeCalendarRepo struct {
	mu            sync.Mutex
	conn          *entity.CalendarConnection
	cred          *entity.CalendarCredential
	updatedTokens []entity.CalendarConnection
	syncLogs      []entity.SyncLogEntry
	deletes       int
}

func (f *fakeCalendarRepo) UpsertConnection(ctx context.Context, conn *entity.CalendarConnection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conn = conn
	return nil
}

func (f *fakeCalendarRepo) GetConnectionByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*entity.CalendarConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn == nil || f.conn.Provider != provider {
		return nil, nil
	}
	return f.conn, nil
}

func (f *fakeCalendarRepo) GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error) {
	if f.conn == nil {
		return nil, nil
	}
	return []entity.CalendarConnection{*f.conn}, nil
}

func (f *fakeCalendarRepo) GetConnectedUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	if f.conn == nil {
		return nil, nil
	}
	return []uuid.UUID{f.conn.UserID}, nil
}

func (f *fakeCalendarRepo) UpdateConnectionTokens(ctx context.Context, conn *entity.CalendarConnection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updatedTokens = append(f.updatedTokens, *conn)
	return nil
}

func (f *fakeCalendarRepo) DeleteConnection(ctx context.Context, userID uuid.UUID, provider string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	f.conn = nil
	return nil
}

func (f *fakeCalendarRepo) GetCredentialByProvider(ctx context.Context, provider string) (*entity.CalendarCredential, error) {
	return f.cred, nil
}

func (f *fakeCalendarRepo) UpsertCredential(ctx context.Context, cred *entity.CalendarCredential) error {
	f.cred = cred
	return nil
}

func (f *fakeCalendarRepo) CreateSyncLog(ctx context.Context, entry *entity.SyncLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncLogs = append(f.syncLogs, *entry)
	return nil
}

type fakeBookingSource struct {
	bookings []SyncBooking
	gotFrom  time.Time
	gotTo    time.Time
}

func (f *fakeBookingSource) GetBookingsForSync(ctx context.Context, from, to time.Time) ([]SyncBooking, error) {
	f.gotFrom = from
	f.gotTo = to
	return f.bookings, nil
}

func newTestService(repo *fakeCalendarRepo, source BookingSource) *calendarService {
	if repo.cred == nil {
		repo.cred = &entity.CalendarCredential{Provider: "google", ClientID: "client-id", ClientSecret: "client-secret"}
	}
	return &calendarService{
		repo:            repo,
		bookings:        source,
		retry:           httpclient.New(httpclient.WithInitialRetryDelay(time.Millisecond)),
		httpClient:      &http.Client{Timeout: 5 * time.Second},
		serverBaseURL:   "http://api.example.com",
		frontendBaseURL: "http://app.example.com",
		now:             time.Now,
	}
}

func futureExpiry() *time.Time {
	t := time.Now().Add(30 * time.Minute)
	return &t
}

func pastExpiry() *time.Time {
	t := time.Now().Add(-time.Minute)
	return &t
}

func googleConnection(expiry *time.Time, refreshToken string) *entity.CalendarConnection {
	conn := &entity.CalendarConnection{
		BaseEntity:     coreEntity.BaseEntity{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:         uuid.New(),
		Provider:       "google",
		AccessToken:    "stored-access-token",
		TokenExpiresAt: expiry,
		CalendarEmail:  "coach@example.com",
	}
	if refreshToken != "" {
		conn.RefreshToken = &refreshToken
	}
	return conn
}

func TestGetValidTokenReturnsStoredTokenWithoutNetwork(t *testing.T) {
	tokenCalls := 0
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
	}))
	defer tokenServer.Close()

	repo := &fakeCalendarRepo{conn: googleConnection(futureExpiry(), "refresh")}
	svc := newTestService(repo, &fakeBookingSource{})
	svc.googleEndpoint = oauth2.Endpoint{TokenURL: tokenServer.URL}

	token, appErr := svc.getValidToken(context.Background(), repo.conn)
	require.Nil(t, appErr)
	assert.Equal(t, "stored-access-token", token)
	assert.Equal(t, 0, tokenCalls)
	assert.Empty(t, repo.updatedTokens)
}

func TestGetValidTokenRefreshesExpiredToken(t *testing.T) {
	tokenCalls := 0
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"fresh-token","refresh_token":"rotated-refresh","expires_in":3600,"token_type":"Bearer"}`)
	}))
	defer tokenServer.Close()

	repo := &fakeCalendarRepo{conn: googleConnection(pastExpiry(), "old-refresh")}
	svc := newTestService(repo, &fakeBookingSource{})
	svc.googleEndpoint = oauth2.Endpoint{TokenURL: tokenServer.URL, AuthStyle: oauth2.AuthStyleInParams}

	token, appErr := svc.getValidToken(context.Background(), repo.conn)
	require.Nil(t, appErr)
	assert.Equal(t, "fresh-token", token)
	assert.Equal(t, 1, tokenCalls)

	require.Len(t, repo.updatedTokens, 1)
	persisted := repo.updatedTokens[0]
	assert.Equal(t, "fresh-token", persisted.AccessToken)
	require.NotNil(t, persisted.RefreshToken)
	assert.Equal(t, "rotated-refresh", *persisted.RefreshToken)
	require.NotNil(t, persisted.TokenExpiresAt)
	assert.True(t, persisted.TokenExpiresAt.After(time.Now()))
}

func TestGetValidTokenFailsWithoutRefreshToken(t *testing.T) {
	repo := &fakeCalendarRepo{conn: googleConnection(pastExpiry(), "")}
	svc := newTestService(repo, &fakeBookingSource{})

	_, appErr := svc.getValidToken(context.Background(), repo.conn)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrTokenRefreshFailed, appErr.Code)
}

func TestSyncWithoutConnectionFails(t *testing.T) {
	repo := &fakeCalendarRepo{}
	svc := newTestService(repo, &fakeBookingSource{})

	_, appErr := svc.Sync(context.Background(), uuid.New(), "google")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotConnected, appErr.Code)
	assert.Empty(t, repo.syncLogs)
}

func TestSyncTokenFailureWritesNoLog(t *testing.T) {
	repo := &fakeCalendarRepo{conn: googleConnection(pastExpiry(), "")}
	source := &fakeBookingSource{bookings: []SyncBooking{{ID: uuid.New(), SessionDate: time.Now()}}}
	svc := newTestService(repo, source)

	_, appErr := svc.Sync(context.Background(), repo.conn.UserID, "google")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrTokenRefreshFailed, appErr.Code)
	assert.Empty(t, repo.syncLogs)
	assert.True(t, source.gotFrom.IsZero(), "bookings must not be loaded when the token is dead")
}

func TestSyncWindowBounds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	repo := &fakeCalendarRepo{conn: googleConnection(futureExpiry(), "refresh")}
	source := &fakeBookingSource{}
	svc := newTestService(repo, source)
	svc.googleAPIBase = server.URL

	_, appErr := svc.Sync(context.Background(), repo.conn.UserID, "google")
	require.Nil(t, appErr)

	now := time.Now()
	assert.WithinDuration(t, now.AddDate(0, 0, -30), source.gotFrom, time.Minute)
	assert.WithinDuration(t, now.AddDate(0, 0, 90), source.gotTo, time.Minute)
}

func TestSyncGoogleCountsPerBookingFailures(t *testing.T) {
	failingID := uuid.New()
	failingEventID := strings.NewReplacer("-", "", "_", "").Replace(failingID.String())
	if len(failingEventID) > 32 {
		failingEventID = failingEventID[:32]
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			// No events exist yet.
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPost:
			var event googleEvent
			require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
			if event.ID == failingEventID {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	repo := &fakeCalendarRepo{conn: googleConnection(futureExpiry(), "refresh")}
	source := &fakeBookingSource{bookings: []SyncBooking{
		{ID: uuid.New(), ClientName: "Alice", SessionType: "Strength", SessionDate: time.Now().AddDate(0, 0, 1)},
		{ID: failingID, ClientName: "Bob", SessionType: "Cardio", SessionDate: time.Now().AddDate(0, 0, 2)},
		{ID: uuid.New(), ClientName: "Carol", SessionType: "Mobility", SessionDate: time.Now().AddDate(0, 0, 3)},
	}}
	svc := newTestService(repo, source)
	svc.googleAPIBase = server.URL

	result, appErr := svc.Sync(context.Background(), repo.conn.UserID, "google")
	require.Nil(t, appErr)
	assert.Equal(t, 2, result.Pushed)
	assert.Equal(t, 1, result.Errors)

	require.Len(t, repo.syncLogs, 1)
	assert.Equal(t, entity.SyncStatusError, repo.syncLogs[0].Status)
	assert.Equal(t, entity.SyncDirectionPush, repo.syncLogs[0].Direction)
}

func TestSyncGoogleExistingEventPatchedOnly(t *testing.T) {
	var patchCalls, postCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			patchCalls++
			w.WriteHeader(http.StatusOK)
		case http.MethodPost:
			postCalls++
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	repo := &fakeCalendarRepo{conn: googleConnection(futureExpiry(), "refresh")}
	source := &fakeBookingSource{bookings: []SyncBooking{
		{ID: uuid.New(), ClientName: "Alice", SessionDate: time.Now().AddDate(0, 0, 1)},
	}}
	svc := newTestService(repo, source)
	svc.googleAPIBase = server.URL

	result, appErr := svc.Sync(context.Background(), repo.conn.UserID, "google")
	require.Nil(t, appErr)
	assert.Equal(t, 1, result.Pushed)
	assert.Equal(t, 0, result.Errors)
	assert.Equal(t, 1, patchCalls)
	assert.Equal(t, 0, postCalls)

	require.Len(t, repo.syncLogs, 1)
	assert.Equal(t, entity.SyncStatusSuccess, repo.syncLogs[0].Status)
}

func TestSyncGoogleIsIdempotent(t *testing.T) {
	created := map[string]bool{}
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPatch:
			parts := strings.Split(r.URL.Path, "/")
			if created[parts[len(parts)-1]] {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPost:
			var event googleEvent
			require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
			created[event.ID] = true
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	repo := &fakeCalendarRepo{conn: googleConnection(futureExpiry(), "refresh")}
	source := &fakeBookingSource{bookings: []SyncBooking{
		{ID: uuid.New(), ClientName: "Alice", SessionDate: time.Now().AddDate(0, 0, 1)},
		{ID: uuid.New(), ClientName: "Bob", SessionDate: time.Now().AddDate(0, 0, 2)},
	}}
	svc := newTestService(repo, source)
	svc.googleAPIBase = server.URL

	first, appErr := svc.Sync(context.Background(), repo.conn.UserID, "google")
	require.Nil(t, appErr)
	second, appErr := svc.Sync(context.Background(), repo.conn.UserID, "google")
	require.Nil(t, appErr)

	assert.Equal(t, first.Pushed, second.Pushed)
	assert.Equal(t, 0, second.Errors)
	assert.Len(t, created, 2, "second sync must not create duplicate events")
}

func TestSyncOutlookCreatesWithTransactionID(t *testing.T) {
	bookingID := uuid.New()
	var postCalls, patchCalls int
	var postedEvent outlookEvent

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			assert.Contains(t, r.URL.Query().Get("$filter"), bookingID.String())
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"value":[]}`)
		case r.Method == http.MethodPost:
			postCalls++
			require.NoError(t, json.NewDecoder(r.Body).Decode(&postedEvent))
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPatch:
			patchCalls++
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	conn := googleConnection(futureExpiry(), "refresh")
	conn.Provider = "outlook"
	repo := &fakeCalendarRepo{
		conn: conn,
		cred: &entity.CalendarCredential{Provider: "outlook", ClientID: "id", ClientSecret: "secret"},
	}
	source := &fakeBookingSource{bookings: []SyncBooking{
		{ID: bookingID, ClientName: "Alice", SessionType: "Strength", Goals: "5k", SessionDate: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
	}}
	svc := newTestService(repo, source)
	svc.graphAPIBase = server.URL

	result, appErr := svc.Sync(context.Background(), conn.UserID, "outlook")
	require.Nil(t, appErr)
	assert.Equal(t, 1, result.Pushed)
	assert.Equal(t, 1, postCalls)
	assert.Equal(t, 0, patchCalls)

	assert.Equal(t, bookingID.String(), postedEvent.TransactionID)
	assert.Equal(t, "Coaching - Alice", postedEvent.Subject)
	assert.Equal(t, "Europe/Paris", postedEvent.Start.TimeZone)
	assert.Equal(t, "2026-03-10T09:00:00", postedEvent.Start.DateTime)
	assert.Equal(t, "2026-03-10T10:00:00", postedEvent.End.DateTime)
}

func TestSyncOutlookUpdatesExistingEvent(t *testing.T) {
	var postCalls, patchCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"value":[{"id":"existing-event"}]}`)
		case http.MethodPatch:
			patchCalls++
			assert.True(t, strings.HasSuffix(r.URL.Path, "/me/events/existing-event"))
			var event outlookEvent
			require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
			assert.Empty(t, event.TransactionID, "transactionId must not be sent on updates")
			w.WriteHeader(http.StatusOK)
		case http.MethodPost:
			postCalls++
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer server.Close()

	conn := googleConnection(futureExpiry(), "refresh")
	conn.Provider = "outlook"
	repo := &fakeCalendarRepo{
		conn: conn,
		cred: &entity.CalendarCredential{Provider: "outlook", ClientID: "id", ClientSecret: "secret"},
	}
	source := &fakeBookingSource{bookings: []SyncBooking{
		{ID: uuid.New(), ClientName: "Alice", SessionDate: time.Now().AddDate(0, 0, 1)},
	}}
	svc := newTestService(repo, source)
	svc.graphAPIBase = server.URL

	result, appErr := svc.Sync(context.Background(), conn.UserID, "outlook")
	require.Nil(t, appErr)
	assert.Equal(t, 1, result.Pushed)
	assert.Equal(t, 1, patchCalls)
	assert.Equal(t, 0, postCalls)
}

func TestDisconnectIsIdempotent(t *testing.T) {
	repo := &fakeCalendarRepo{}
	svc := newTestService(repo, &fakeBookingSource{})

	require.Nil(t, svc.Disconnect(context.Background(), uuid.New(), "google"))
	require.Nil(t, svc.Disconnect(context.Background(), uuid.New(), "google"))
	assert.Equal(t, 2, repo.deletes)
}

func TestGoogleEventIDDerivation(t *testing.T) {
	id := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	eventID := googleEventID(SyncBooking{ID: id})

	assert.Equal(t, "123e4567e89b12d3a456426614174000", eventID)
	assert.LessOrEqual(t, len(eventID), 32)
	assert.NotContains(t, eventID, "-")
}

func TestGetAuthURLCarriesUserIDAsState(t *testing.T) {
	repo := &fakeCalendarRepo{}
	svc := newTestService(repo, &fakeBookingSource{})
	svc.googleEndpoint = oauth2.Endpoint{AuthURL: "https://accounts.example.com/auth", TokenURL: "https://accounts.example.com/token"}

	userID := uuid.New()
	url, appErr := svc.GetAuthURL(context.Background(), "google", userID)
	require.Nil(t, appErr)
	assert.Contains(t, url, "state="+userID.String())
	assert.Contains(t, url, "prompt=consent")
	assert.Contains(t, url, "access_type=offline")
}

func TestGetAuthURLWithoutCredentials(t *testing.T) {
	repo := &fakeCalendarRepo{cred: nil}
	svc := &calendarService{
		repo:       repo,
		bookings:   &fakeBookingSource{},
		retry:      httpclient.New(),
		httpClient: http.DefaultClient,
		now:        time.Now,
	}

	_, appErr := svc.GetAuthURL(context.Background(), "google", uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConfigurationMissing, appErr.Code)
}

func TestGetAuthURLUnsupportedProvider(t *testing.T) {
	repo := &fakeCalendarRepo{}
	svc := newTestService(repo, &fakeBookingSource{})

	_, appErr := svc.GetAuthURL(context.Background(), "caldav", uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestHandleCallbackRejectsMalformedState(t *testing.T) {
	repo := &fakeCalendarRepo{}
	svc := newTestService(repo, &fakeBookingSource{})

	err := svc.HandleCallback(context.Background(), "google", "code", "not-a-uuid")
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	assert.Nil(t, repo.conn)
}

func TestGetValidTokenFollowsInjectedClock(t *testing.T) {
	tokenCalls := 0
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"fresh-token","expires_in":3600,"token_type":"Bearer"}`)
	}))
	defer tokenServer.Close()

	// Valid for another 30 minutes on the wall clock, but the service clock
	// sits an hour ahead, so the token must be treated as expired.
	repo := &fakeCalendarRepo{conn: googleConnection(futureExpiry(), "refresh")}
	svc := newTestService(repo, &fakeBookingSource{})
	svc.googleEndpoint = oauth2.Endpoint{TokenURL: tokenServer.URL, AuthStyle: oauth2.AuthStyleInParams}
	svc.now = func() time.Time { return time.Now().Add(time.Hour) }

	token, appErr := svc.getValidToken(context.Background(), repo.conn)
	require.Nil(t, appErr)
	assert.Equal(t, "fresh-token", token)
	assert.Equal(t, 1, tokenCalls)
}
