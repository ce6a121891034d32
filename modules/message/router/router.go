package router

import (
	"coach-portal-api/core/middleware"
	"coach-portal-api/modules/message/controller"

	"github.com/labstack/echo/v4"
)

type MessageRouter struct {
	controller *controller.MessageController
}

func NewMessageRouter(controller *controller.MessageController) *MessageRouter {
	return &MessageRouter{controller: controller}
}

func (r *MessageRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	group := e.Group("/api/v1/private/messages", mw.AuthMiddleware())
	group.POST("", r.controller.Send)
	group.GET("/unread-count", r.controller.CountUnread)
	group.GET("/conversation/:user_id", r.controller.GetConversation)
	group.PUT("/conversation/:user_id/read", r.controller.MarkRead)
}
