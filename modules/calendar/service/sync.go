package service

import (
	"context"
	"fmt"

	"coach-portal-api/core/errors"
	"coach-portal-api/core/logger"
	"coach-portal-api/modules/calendar/dto"
	"coach-portal-api/modules/calendar/entity"

	"github.com/google/uuid"
)

// Sync pushes every confirmed or pending booking inside the window to the
// user's connected calendar. Individual booking failures are counted, not
// fatal; only a missing connection or a dead token aborts the run.
func (s *calendarService) Sync(ctx context.Context, userID uuid.UUID, provider string) (*SyncResult, *errors.AppError) {
	conn, err := s.repo.GetConnectionByUserAndProvider(ctx, userID, provider)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load calendar connection", err)
	}
	if conn == nil {
		return nil, errors.NewAppError(errors.ErrNotConnected, fmt.Sprintf("no %s calendar connected", provider), nil)
	}

	accessToken, appErr := s.getValidToken(ctx, conn)
	if appErr != nil {
		return nil, appErr
	}

	now := s.now()
	from := now.AddDate(0, 0, -syncLookbackDays)
	to := now.AddDate(0, 0, syncLookaheadDays)

	bookings, err := s.bookings.GetBookingsForSync(ctx, from, to)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load bookings", err)
	}

	result := &SyncResult{}
	for _, booking := range bookings {
		var pushErr error
		switch provider {
		case dto.ProviderGoogle:
			pushErr = s.pushGoogleEvent(ctx, accessToken, booking)
		case dto.ProviderOutlook:
			pushErr = s.pushOutlookEvent(ctx, accessToken, booking)
		}
		if pushErr != nil {
			logger.Error("CalendarService:Sync push failed", "provider", provider, "booking_id", booking.ID, "error", pushErr)
			result.Errors++
			continue
		}
		result.Pushed++
	}

	status := entity.SyncStatusSuccess
	if result.Errors > 0 {
		status = entity.SyncStatusError
	}
	log := &entity.SyncLogEntry{
		ConnectionID: conn.ID,
		Direction:    entity.SyncDirectionPush,
		Status:       status,
		Detail:       fmt.Sprintf("pushed %d events, %d errors", result.Pushed, result.Errors),
	}
	if err := s.repo.CreateSyncLog(ctx, log); err != nil {
		logger.Error("CalendarService:Sync log write failed", "connection_id", conn.ID, "error", err)
	}

	logger.Info("CalendarService:Sync done", "user_id", userID, "provider", provider, "pushed", result.Pushed, "errors", result.Errors)
	return result, nil
}
