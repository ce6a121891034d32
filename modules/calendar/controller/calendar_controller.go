package controller

import (
	"fmt"
	"net/http"

	"coach-portal-api/core/controller"
	"coach-portal-api/core/errors"
	"coach-portal-api/core/logger"
	"coach-portal-api/core/middleware"
	"coach-portal-api/modules/calendar/dto"
	"coach-portal-api/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	service         service.CalendarService
	frontendBaseURL string
}

func NewCalendarController(service service.CalendarService, frontendBaseURL string) *CalendarController {
	return &CalendarController{service: service, frontendBaseURL: frontendBaseURL}
}

// HandleAction dispatches the calendar action endpoint
// POST /api/v1/private/calendar
func (c *CalendarController) HandleAction(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid user"})
	}

	var req dto.ActionRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
	}

	if req.Action != dto.ActionStatus && !dto.ValidProvider(req.Provider) {
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid provider"})
	}

	reqCtx := ctx.Request().Context()
	switch req.Action {
	case dto.ActionGetAuthURL:
		url, appErr := c.service.GetAuthURL(reqCtx, req.Provider, userID)
		if appErr != nil {
			return ctx.JSON(controller.HTTPStatusForCode(appErr.Code), dto.ErrorResponse{Error: appErr.Message})
		}
		return ctx.JSON(http.StatusOK, dto.AuthURLResponse{URL: url})

	case dto.ActionSync:
		result, appErr := c.service.Sync(reqCtx, userID, req.Provider)
		if appErr != nil {
			return ctx.JSON(controller.HTTPStatusForCode(appErr.Code), dto.ErrorResponse{Error: appErr.Message})
		}
		return ctx.JSON(http.StatusOK, dto.SyncResponse{
			Success: true,
			Pushed:  result.Pushed,
			Errors:  result.Errors,
		})

	case dto.ActionDisconnect:
		if appErr := c.service.Disconnect(reqCtx, userID, req.Provider); appErr != nil {
			return ctx.JSON(controller.HTTPStatusForCode(appErr.Code), dto.ErrorResponse{Error: appErr.Message})
		}
		return ctx.JSON(http.StatusOK, dto.DisconnectResponse{Success: true})

	case dto.ActionStatus:
		connections, appErr := c.service.Status(reqCtx, userID)
		if appErr != nil {
			return ctx.JSON(controller.HTTPStatusForCode(appErr.Code), dto.ErrorResponse{Error: appErr.Message})
		}
		return ctx.JSON(http.StatusOK, dto.StatusResponse{Connections: connections})

	default:
		appErr := errors.NewAppError(errors.ErrUnknownAction, fmt.Sprintf("Unknown action: %s", req.Action), nil)
		return ctx.JSON(controller.HTTPStatusForCode(appErr.Code), dto.ErrorResponse{Error: appErr.Message})
	}
}

// GoogleCallback handles the browser redirect from Google's consent screen
// GET /api/v1/public/calendar/google-calendar-callback
func (c *CalendarController) GoogleCallback(ctx echo.Context) error {
	return c.handleCallback(ctx, dto.ProviderGoogle)
}

// OutlookCallback handles the browser redirect from Microsoft's consent screen
// GET /api/v1/public/calendar/outlook-calendar-callback
func (c *CalendarController) OutlookCallback(ctx echo.Context) error {
	return c.handleCallback(ctx, dto.ProviderOutlook)
}

func (c *CalendarController) handleCallback(ctx echo.Context, provider string) error {
	code := ctx.QueryParam("code")
	state := ctx.QueryParam("state")
	if code == "" || state == "" {
		return ctx.Redirect(http.StatusFound, c.redirectURL("error", provider))
	}

	if err := c.service.HandleCallback(ctx.Request().Context(), provider, code, state); err != nil {
		// Provider error details stay in the logs, never in the browser.
		logger.Error("CalendarController:handleCallback failed", "provider", provider, "error", err)
		return ctx.Redirect(http.StatusFound, c.redirectURL("error", provider))
	}
	return ctx.Redirect(http.StatusFound, c.redirectURL("connected", provider))
}

func (c *CalendarController) redirectURL(flag, provider string) string {
	return fmt.Sprintf("%s/admin/calendar?%s=%s", c.frontendBaseURL, flag, provider)
}
