package controller

import (
	"coach-portal-api/core/constants"
	"coach-portal-api/core/controller"
	"coach-portal-api/core/errors"
	"coach-portal-api/core/middleware"
	"coach-portal-api/modules/document/dto"
	"coach-portal-api/modules/document/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type DocumentController struct {
	service service.DocumentService
	controller.BaseController
}

func NewDocumentController(service service.DocumentService) *DocumentController {
	return &DocumentController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Upload registers a document and returns a presigned upload URL (admin only)
// POST /api/v1/private/documents
func (c *DocumentController) Upload(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.UploadDocumentRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := c.service.Upload(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Document created")
}

// Download returns a presigned download URL
// GET /api/v1/private/documents/:id/download
func (c *DocumentController) Download(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid document id", nil)
	}

	reqCtx := ctx.Request().Context()
	document, appErr := c.service.GetByID(reqCtx, id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	if middleware.GetUserRole(ctx) != constants.RoleAdmin && document.ClientID != userID && document.OwnerID != userID {
		return c.Forbidden(errors.ErrForbidden, "Not your document", nil)
	}

	result, appErr := c.service.Download(reqCtx, id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Download URL generated")
}

// ListByClient lists the documents shared with one client
// GET /api/v1/private/documents/client/:client_id
func (c *DocumentController) ListByClient(ctx echo.Context) error {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	clientID, err := uuid.Parse(ctx.Param("client_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid client id", nil)
	}
	if middleware.GetUserRole(ctx) != constants.RoleAdmin && clientID != userID {
		return c.Forbidden(errors.ErrForbidden, "Not your documents", nil)
	}

	documents, appErr := c.service.ListByClient(ctx.Request().Context(), clientID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.DocumentListResponse{Documents: documents}, "Documents retrieved")
}

// Delete removes a document and its stored object (admin only)
// DELETE /api/v1/private/documents/:id
func (c *DocumentController) Delete(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid document id", nil)
	}

	if appErr := c.service.Delete(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Document deleted")
}
