package controller

import (
	"coach-portal-api/core/constants"
	"coach-portal-api/core/controller"
	"coach-portal-api/core/errors"
	"coach-portal-api/core/middleware"
	"coach-portal-api/core/params"
	"coach-portal-api/modules/booking/dto"
	"coach-portal-api/modules/booking/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type BookingController struct {
	service service.BookingService
	controller.BaseController
}

func NewBookingController(service service.BookingService) *BookingController {
	return &BookingController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Create books a new coaching session for the current user
// POST /api/v1/private/bookings
func (c *BookingController) Create(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.CreateBookingRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}
	if req.SessionDate.IsZero() || req.SessionType == "" {
		return c.BadRequest(errors.ErrInvalidInput, "session_date and session_type are required", nil)
	}

	booking, appErr := c.service.Create(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, booking, "Booking created")
}

// List returns bookings: all of them for admins, the caller's otherwise
// GET /api/v1/private/bookings
func (c *BookingController) List(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	qp := params.FromContext(ctx)
	reqCtx := ctx.Request().Context()

	if middleware.GetUserRole(ctx) == constants.RoleAdmin {
		result, appErr := c.service.List(reqCtx, &qp)
		if appErr != nil {
			return c.ErrorResponse(ctx, appErr)
		}
		return c.SuccessResponse(ctx, result, "Bookings retrieved")
	}

	result, appErr := c.service.ListByClient(reqCtx, userID, &qp)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Bookings retrieved")
}

// GetByID returns one booking
// GET /api/v1/private/bookings/:id
func (c *BookingController) GetByID(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking id", nil)
	}

	booking, appErr := c.service.GetByID(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	if middleware.GetUserRole(ctx) != constants.RoleAdmin && booking.ClientID != userID {
		return c.Forbidden(errors.ErrForbidden, "Not your booking", nil)
	}
	return c.SuccessResponse(ctx, booking, "Booking retrieved")
}

// Update changes the details of a booking
// PUT /api/v1/private/bookings/:id
func (c *BookingController) Update(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking id", nil)
	}

	req := new(dto.UpdateBookingRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	reqCtx := ctx.Request().Context()
	existing, appErr := c.service.GetByID(reqCtx, id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	if middleware.GetUserRole(ctx) != constants.RoleAdmin && existing.ClientID != userID {
		return c.Forbidden(errors.ErrForbidden, "Not your booking", nil)
	}

	booking, appErr := c.service.Update(reqCtx, id, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, booking, "Booking updated")
}

// UpdateStatus confirms or cancels a booking (admin only)
// PUT /api/v1/private/bookings/:id/status
func (c *BookingController) UpdateStatus(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking id", nil)
	}

	req := new(dto.UpdateStatusRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	booking, appErr := c.service.UpdateStatus(ctx.Request().Context(), id, req.Status)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, booking, "Booking status updated")
}

// Delete removes a booking (admin only)
// DELETE /api/v1/private/bookings/:id
func (c *BookingController) Delete(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid booking id", nil)
	}

	if appErr := c.service.Delete(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Booking deleted")
}
