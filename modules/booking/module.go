package booking

import (
	"coach-portal-api/core/cache"
	"coach-portal-api/core/database"
	"coach-portal-api/core/middleware"
	"coach-portal-api/core/queue"
	authRepository "coach-portal-api/modules/auth/repository"
	"coach-portal-api/modules/booking/controller"
	"coach-portal-api/modules/booking/repository"
	"coach-portal-api/modules/booking/router"
	"coach-portal-api/modules/booking/service"
	calendarRepository "coach-portal-api/modules/calendar/repository"
	notificationRepository "coach-portal-api/modules/notification/repository"
	notificationService "coach-portal-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, queueClient *queue.Client) {
	repo := repository.NewBookingRepository(db)
	authRepo := authRepository.NewAuthRepository(db)
	notificationSvc := notificationService.NewNotificationService(notificationRepository.NewNotificationRepository(db))
	calendarRepo := calendarRepository.NewCalendarRepository(db)

	bookingService := service.NewBookingService(repo, authRepo, notificationSvc, queueClient, calendarRepo)
	bookingController := controller.NewBookingController(bookingService)

	mw := middleware.NewMiddleware(c)
	router.NewBookingRouter(bookingController).Setup(e, mw)
}
