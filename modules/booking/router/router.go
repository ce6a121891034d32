package router

import (
	"coach-portal-api/core/middleware"
	"coach-portal-api/modules/booking/controller"

	"github.com/labstack/echo/v4"
)

type BookingRouter struct {
	controller *controller.BookingController
}

func NewBookingRouter(controller *controller.BookingController) *BookingRouter {
	return &BookingRouter{
		controller: controller,
	}
}

func (r *BookingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	bookingRoutes := v1.Group("/private/bookings")
	bookingRoutes.Use(mw.AuthMiddleware())

	bookingRoutes.POST("", r.controller.Create)
	bookingRoutes.GET("", r.controller.List)
	bookingRoutes.GET("/:id", r.controller.GetByID)
	bookingRoutes.PUT("/:id", r.controller.Update)

	// Status transitions and deletion are the coach's call
	adminRoutes := bookingRoutes.Group("")
	adminRoutes.Use(mw.AdminMiddleware())
	adminRoutes.PUT("/:id/status", r.controller.UpdateStatus)
	adminRoutes.DELETE("/:id", r.controller.Delete)
}
