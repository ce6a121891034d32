package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coach-portal-api/core/controller"
	"coach-portal-api/core/errors"
	"coach-portal-api/core/middleware"
	"coach-portal-api/modules/calendar/dto"
	"coach-portal-api/modules/calendar/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCalendarService struct {
	syncResult  *service.SyncResult
	syncErr     *errors.AppError
	authURL     string
	authErr     *errors.AppError
	callbackErr error
	connections []dto.ConnectionInfo
}

func (f *fakeCalendarService) GetAuthURL(ctx context.Context, provider string, userID uuid.UUID) (string, *errors.AppError) {
	return f.authURL, f.authErr
}

func (f *fakeCalendarService) HandleCallback(ctx context.Context, provider, code, state string) error {
	return f.callbackErr
}

func (f *fakeCalendarService) Status(ctx context.Context, userID uuid.UUID) ([]dto.ConnectionInfo, *errors.AppError) {
	return f.connections, nil
}

func (f *fakeCalendarService) Disconnect(ctx context.Context, userID uuid.UUID, provider string) *errors.AppError {
	return nil
}

func (f *fakeCalendarService) Sync(ctx context.Context, userID uuid.UUID, provider string) (*service.SyncResult, *errors.AppError) {
	return f.syncResult, f.syncErr
}

func doAction(t *testing.T, svc service.CalendarService, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/private/calendar", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKeyUserID, uuid.New())

	ctrl := NewCalendarController(svc, "http://app.example.com")
	require.NoError(t, ctrl.HandleAction(c))
	return rec
}

func TestHandleActionSync(t *testing.T) {
	svc := &fakeCalendarService{syncResult: &service.SyncResult{Pushed: 2, Errors: 1}}
	rec := doAction(t, svc, `{"action":"sync","provider":"google"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp dto.SyncResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Pushed)
	assert.Equal(t, 1, resp.Errors)
}

func TestHandleActionSyncNotConnected(t *testing.T) {
	svc := &fakeCalendarService{syncErr: errors.NewAppError(errors.ErrNotConnected, "no google calendar connected", nil)}
	rec := doAction(t, svc, `{"action":"sync","provider":"google"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "no google calendar connected", resp.Error)
}

func TestHandleActionGetAuthURL(t *testing.T) {
	svc := &fakeCalendarService{authURL: "https://accounts.example.com/consent"}
	rec := doAction(t, svc, `{"action":"get-auth-url","provider":"outlook"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp dto.AuthURLResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "https://accounts.example.com/consent", resp.URL)
}

func TestHandleActionDisconnect(t *testing.T) {
	rec := doAction(t, &fakeCalendarService{}, `{"action":"disconnect","provider":"google"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp dto.DisconnectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestHandleActionStatus(t *testing.T) {
	svc := &fakeCalendarService{connections: []dto.ConnectionInfo{
		{Provider: "google", Email: "coach@example.com", ConnectedAt: "2026-01-02T10:00:00Z"},
	}}
	rec := doAction(t, svc, `{"action":"status"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp dto.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Connections, 1)
	assert.Equal(t, "google", resp.Connections[0].Provider)
}

func TestHandleActionUnknown(t *testing.T) {
	rec := doAction(t, &fakeCalendarService{}, `{"action":"explode","provider":"google"}`)

	assert.Equal(t, controller.HTTPStatusForCode(errors.ErrUnknownAction), rec.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Unknown action: explode", resp.Error)
}

func TestHandleActionInvalidProvider(t *testing.T) {
	rec := doAction(t, &fakeCalendarService{}, `{"action":"sync","provider":"caldav"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoogleCallbackRedirects(t *testing.T) {
	e := echo.New()
	ctrl := NewCalendarController(&fakeCalendarService{}, "http://app.example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/calendar/google-calendar-callback?code=abc&state="+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	require.NoError(t, ctrl.GoogleCallback(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://app.example.com/admin/calendar?connected=google", rec.Header().Get(echo.HeaderLocation))
}

func TestOutlookCallbackRedirectsOnFailure(t *testing.T) {
	e := echo.New()
	svc := &fakeCalendarService{callbackErr: errors.NewAppError(errors.ErrUnauthorized, "exchange failed", nil)}
	ctrl := NewCalendarController(svc, "http://app.example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/calendar/outlook-calendar-callback?code=abc&state="+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	require.NoError(t, ctrl.OutlookCallback(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://app.example.com/admin/calendar?error=outlook", rec.Header().Get(echo.HeaderLocation))
}

func TestCallbackWithoutCodeRedirectsToError(t *testing.T) {
	e := echo.New()
	ctrl := NewCalendarController(&fakeCalendarService{}, "http://app.example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/calendar/google-calendar-callback", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, ctrl.GoogleCallback(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://app.example.com/admin/calendar?error=google", rec.Header().Get(echo.HeaderLocation))
}
