package auth

import (
	"coach-portal-api/core/cache"
	"coach-portal-api/core/database"
	"coach-portal-api/core/middleware"
	"coach-portal-api/modules/auth/controller"
	"coach-portal-api/modules/auth/repository"
	"coach-portal-api/modules/auth/router"
	"coach-portal-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, c cache.Cache) {
	repo := repository.NewAuthRepository(db)
	authService := service.NewAuthService(repo, c)
	authController := controller.NewAuthController(authService)

	mw := middleware.NewMiddleware(c)
	router.NewAuthRouter(authController).Setup(e, mw)
}
