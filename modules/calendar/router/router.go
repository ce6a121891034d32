package router

import (
	"coach-portal-api/core/middleware"
	"coach-portal-api/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{
		controller: controller,
	}
}

func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	// Single action endpoint (requires authentication)
	calendarRoutes := v1.Group("/private/calendar")
	calendarRoutes.Use(mw.AuthMiddleware())
	calendarRoutes.POST("", r.controller.HandleAction)

	// OAuth callbacks arrive from the provider's consent screen, unauthenticated
	publicRoutes := v1.Group("/public/calendar")
	publicRoutes.GET("/google-calendar-callback", r.controller.GoogleCallback)
	publicRoutes.GET("/outlook-calendar-callback", r.controller.OutlookCallback)
}
