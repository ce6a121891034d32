package router

import (
	"coach-portal-api/core/middleware"
	"coach-portal-api/modules/document/controller"

	"github.com/labstack/echo/v4"
)

type DocumentRouter struct {
	controller *controller.DocumentController
}

func NewDocumentRouter(controller *controller.DocumentController) *DocumentRouter {
	return &DocumentRouter{controller: controller}
}

func (r *DocumentRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	group := e.Group("/api/v1/private/documents", mw.AuthMiddleware())
	group.GET("/:id/download", r.controller.Download)
	group.GET("/client/:client_id", r.controller.ListByClient)

	adminGroup := group.Group("")
	adminGroup.Use(mw.AdminMiddleware())
	adminGroup.POST("", r.controller.Upload)
	adminGroup.DELETE("/:id", r.controller.Delete)
}
