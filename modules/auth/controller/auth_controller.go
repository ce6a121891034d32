package controller

import (
	"coach-portal-api/core/controller"
	"coach-portal-api/core/errors"
	"coach-portal-api/core/logger"
	"coach-portal-api/core/middleware"
	"coach-portal-api/core/utils"
	"coach-portal-api/modules/auth/dto"
	"coach-portal-api/modules/auth/service"
	"coach-portal-api/modules/auth/validator"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	AuthService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    authService,
	}
}

func (c *AuthController) Register(ctx echo.Context) error {
	requestData := new(dto.RegisterRequest)
	if err := ctx.Bind(requestData); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.ValidateRegisterRequest(requestData)
	if validationResult.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	authResponse, err := c.AuthService.Register(ctx.Request().Context(), requestData)
	if err != nil {
		if err.Code == errors.ErrAlreadyExists {
			return c.BadRequest(err.Code, err.Message, nil)
		}
		return c.InternalServerError(err.Code, err.Message, nil)
	}
	return c.SuccessResponse(ctx, authResponse, "Register success")
}

func (c *AuthController) Login(ctx echo.Context) error {
	requestData := new(dto.LoginRequest)
	if err := ctx.Bind(requestData); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.ValidateLoginRequest(requestData)
	if validationResult.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	authResponse, err := c.AuthService.Login(ctx.Request().Context(), requestData)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, authResponse, "Login success")
}

func (c *AuthController) Logout(ctx echo.Context) error {
	token, err := utils.GetTokenFromHeader(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	if appErr := c.AuthService.Logout(ctx.Request().Context(), token); appErr != nil {
		logger.Error("AuthController:Logout", "error", appErr)
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Logout success")
}

func (c *AuthController) RefreshToken(ctx echo.Context) error {
	requestData := new(dto.RefreshTokenRequest)
	if err := ctx.Bind(requestData); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data", nil)
	}

	validationResult := validator.ValidateRefreshTokenRequest(requestData)
	if validationResult.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	authResponse, err := c.AuthService.RefreshToken(ctx.Request().Context(), requestData.RefreshToken)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, authResponse, "Token refreshed")
}

func (c *AuthController) Me(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Invalid user", nil)
	}

	user, appErr := c.AuthService.Me(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, user, "OK")
}
