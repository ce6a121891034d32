package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type googleEventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type googleEvent struct {
	ID          string          `json:"id,omitempty"`
	Summary     string          `json:"summary"`
	Description string          `json:"description"`
	Start       googleEventTime `json:"start"`
	End         googleEventTime `json:"end"`
}

// googleEventID derives a stable event id from the booking id: separators
// stripped, truncated to Google's 32 character limit. The same booking always
// maps to the same event, which is what makes repeated syncs idempotent.
func googleEventID(booking SyncBooking) string {
	id := strings.NewReplacer("-", "", "_", "").Replace(booking.ID.String())
	if len(id) > 32 {
		id = id[:32]
	}
	return id
}

func (s *calendarService) pushGoogleEvent(ctx context.Context, accessToken string, booking SyncBooking) error {
	event := googleEvent{
		Summary:     fmt.Sprintf("Coaching - %s", booking.ClientName),
		Description: fmt.Sprintf("%s\n%s", booking.SessionType, booking.Goals),
		Start: googleEventTime{
			DateTime: booking.SessionDate.Format(time.RFC3339),
			TimeZone: eventTimeZone,
		},
		End: googleEventTime{
			DateTime: booking.SessionDate.Add(eventDuration).Format(time.RFC3339),
			TimeZone: eventTimeZone,
		},
	}

	eventID := googleEventID(booking)
	patchBody, err := json.Marshal(event)
	if err != nil {
		return err
	}

	patchURL := fmt.Sprintf("%s/calendars/primary/events/%s", s.googleAPIBase, eventID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, patchURL, bytes.NewReader(patchBody))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.retry.Do(req)
	if err != nil {
		return err
	}
	drainAndClose(resp)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		// First push for this booking: create with the derived id.
		event.ID = eventID
		return s.createGoogleEvent(ctx, accessToken, event)
	default:
		return fmt.Errorf("google event update returned status %d", resp.StatusCode)
	}
}

func (s *calendarService) createGoogleEvent(ctx context.Context, accessToken string, event googleEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	url := s.googleAPIBase + "/calendars/primary/events"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.retry.DoOnce(req)
	if err != nil {
		return err
	}
	drainAndClose(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("google event creation returned status %d", resp.StatusCode)
	}
	return nil
}

func drainAndClose(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
