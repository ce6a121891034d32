package notification

import (
	"coach-portal-api/core/cache"
	"coach-portal-api/core/database"
	"coach-portal-api/core/middleware"
	"coach-portal-api/modules/notification/controller"
	"coach-portal-api/modules/notification/repository"
	"coach-portal-api/modules/notification/router"
	"coach-portal-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, c cache.Cache) {
	repo := repository.NewNotificationRepository(db)
	notificationService := service.NewNotificationService(repo)
	notificationController := controller.NewNotificationController(notificationService)

	mw := middleware.NewMiddleware(c)
	router.NewNotificationRouter(notificationController).Setup(e, mw)
}
