package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const outlookTimeFormat = "2006-01-02T15:04:05"

type outlookDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type outlookBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type outlookEvent struct {
	Subject       string          `json:"subject"`
	Body          outlookBody     `json:"body"`
	Start         outlookDateTime `json:"start"`
	End           outlookDateTime `json:"end"`
	TransactionID string          `json:"transactionId,omitempty"`
}

func (s *calendarService) pushOutlookEvent(ctx context.Context, accessToken string, booking SyncBooking) error {
	existingID, err := s.findOutlookEvent(ctx, accessToken, booking.ID.String())
	if err != nil {
		return err
	}

	event := outlookEvent{
		Subject: fmt.Sprintf("Coaching - %s", booking.ClientName),
		Body: outlookBody{
			ContentType: "text",
			Content:     fmt.Sprintf("%s\n%s", booking.SessionType, booking.Goals),
		},
		Start: outlookDateTime{
			DateTime: booking.SessionDate.Format(outlookTimeFormat),
			TimeZone: eventTimeZone,
		},
		End: outlookDateTime{
			DateTime: booking.SessionDate.Add(eventDuration).Format(outlookTimeFormat),
			TimeZone: eventTimeZone,
		},
	}

	if existingID != "" {
		return s.updateOutlookEvent(ctx, accessToken, existingID, event)
	}
	// transactionId only goes out on creation; Graph rejects it on updates.
	event.TransactionID = booking.ID.String()
	return s.createOutlookEvent(ctx, accessToken, event)
}

// findOutlookEvent looks up a previously pushed event by the transactionId it
// was created with. Empty string means no event exists yet.
func (s *calendarService) findOutlookEvent(ctx context.Context, accessToken, bookingID string) (string, error) {
	filter := url.Values{}
	filter.Set("$filter", fmt.Sprintf("transactionId eq '%s'", bookingID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.graphAPIBase+"/me/events?"+filter.Encode(), nil)
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
		return "", fmt.Errorf("outlook event search returned status %d", resp.StatusCode)
	}

	var result struct {
		Value []struct {
			ID string `json:"id"`
		} `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Value) == 0 {
		return "", nil
	}
	return result.Value[0].ID, nil
}

func (s *calendarService) updateOutlookEvent(ctx context.Context, accessToken, eventID string, event outlookEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, s.graphAPIBase+"/me/events/"+eventID, bytes.NewReader(body))
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

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("outlook event update returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *calendarService) createOutlookEvent(ctx context.Context, accessToken string, event outlookEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.graphAPIBase+"/me/events", bytes.NewReader(body))
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
		return fmt.Errorf("outlook event creation returned status %d", resp.StatusCode)
	}
	return nil
}
