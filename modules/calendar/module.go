package calendar

import (
	"context"
	"time"

	"coach-portal-api/core/cache"
	"coach-portal-api/core/config"
	"coach-portal-api/core/constants"
	"coach-portal-api/core/database"
	"coach-portal-api/core/middleware"
	bookingRepository "coach-portal-api/modules/booking/repository"
	"coach-portal-api/modules/calendar/controller"
	"coach-portal-api/modules/calendar/repository"
	"coach-portal-api/modules/calendar/router"
	"coach-portal-api/modules/calendar/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// bookingSource adapts the booking repository to the reconciler's input.
type bookingSource struct {
	repo bookingRepository.BookingRepository
}

func (b *bookingSource) GetBookingsForSync(ctx context.Context, from, to time.Time) ([]service.SyncBooking, error) {
	rows, err := b.repo.GetBookingsForSync(ctx, from, to)
	if err != nil {
		return nil, err
	}
	bookings := make([]service.SyncBooking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, service.SyncBooking{
			ID:          row.ID,
			ClientName:  row.ClientName,
			SessionType: row.SessionType,
			Goals:       row.Goals,
			SessionDate: row.SessionDate,
			Status:      row.Status,
		})
	}
	return bookings, nil
}

func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, mux *asynq.ServeMux) {
	cfg := config.Get()

	repo := repository.NewCalendarRepository(db)
	bookingRepo := bookingRepository.NewBookingRepository(db)
	calendarService := service.NewCalendarService(repo, &bookingSource{repo: bookingRepo}, cfg.Server.BaseURL, cfg.Frontend.BaseURL)
	calendarController := controller.NewCalendarController(calendarService, cfg.Frontend.BaseURL)

	mw := middleware.NewMiddleware(c)
	router.NewCalendarRouter(calendarController).Setup(e, mw)

	mux.HandleFunc(constants.TaskCalendarSync, NewSyncWorker(calendarService, repo).HandleSyncTask)
}
