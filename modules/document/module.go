package document

import (
	"coach-portal-api/core/cache"
	"coach-portal-api/core/database"
	"coach-portal-api/core/middleware"
	"coach-portal-api/core/storage"
	"coach-portal-api/modules/document/controller"
	"coach-portal-api/modules/document/repository"
	"coach-portal-api/modules/document/router"
	"coach-portal-api/modules/document/service"
	notificationRepository "coach-portal-api/modules/notification/repository"
	notificationService "coach-portal-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, objectStorage storage.ObjectStorage) {
	repo := repository.NewDocumentRepository(db)
	notificationSvc := notificationService.NewNotificationService(notificationRepository.NewNotificationRepository(db))

	documentService := service.NewDocumentService(repo, objectStorage, notificationSvc)
	documentController := controller.NewDocumentController(documentService)

	mw := middleware.NewMiddleware(c)
	router.NewDocumentRouter(documentController).Setup(e, mw)
}
