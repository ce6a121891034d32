package message

import (
	"coach-portal-api/core/cache"
	"coach-portal-api/core/database"
	"coach-portal-api/core/middleware"
	authRepository "coach-portal-api/modules/auth/repository"
	"coach-portal-api/modules/message/controller"
	"coach-portal-api/modules/message/repository"
	"coach-portal-api/modules/message/router"
	"coach-portal-api/modules/message/service"
	notificationRepository "coach-portal-api/modules/notification/repository"
	notificationService "coach-portal-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, c cache.Cache) {
	repo := repository.NewMessageRepository(db)
	authRepo := authRepository.NewAuthRepository(db)
	notificationSvc := notificationService.NewNotificationService(notificationRepository.NewNotificationRepository(db))

	messageService := service.NewMessageService(repo, authRepo, notificationSvc)
	messageController := controller.NewMessageController(messageService)

	mw := middleware.NewMiddleware(c)
	router.NewMessageRouter(messageController).Setup(e, mw)
}
