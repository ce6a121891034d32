package controller

import (
	"coach-portal-api/core/controller"
	"coach-portal-api/core/errors"
	"coach-portal-api/core/middleware"
	"coach-portal-api/core/params"
	"coach-portal-api/modules/message/dto"
	"coach-portal-api/modules/message/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type MessageController struct {
	service service.MessageService
	controller.BaseController
}

func NewMessageController(service service.MessageService) *MessageController {
	return &MessageController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Send delivers a message to another user
// POST /api/v1/private/messages
func (c *MessageController) Send(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.SendMessageRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	message, appErr := c.service.Send(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, message, "Message sent")
}

// GetConversation returns the paginated exchange with another user
// GET /api/v1/private/messages/conversation/:user_id
func (c *MessageController) GetConversation(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	otherID, err := uuid.Parse(ctx.Param("user_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user id", nil)
	}

	qp := params.FromContext(ctx)
	conversation, appErr := c.service.GetConversation(ctx.Request().Context(), userID, otherID, qp)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, conversation, "Conversation retrieved")
}

// MarkRead marks every message from the given sender as read
// PUT /api/v1/private/messages/conversation/:user_id/read
func (c *MessageController) MarkRead(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	senderID, err := uuid.Parse(ctx.Param("user_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user id", nil)
	}

	if appErr := c.service.MarkConversationRead(ctx.Request().Context(), userID, senderID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Conversation marked read")
}

// CountUnread returns the number of unread messages
// GET /api/v1/private/messages/unread-count
func (c *MessageController) CountUnread(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	count, appErr := c.service.CountUnread(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.UnreadCountResponse{Count: count}, "Unread count retrieved")
}
