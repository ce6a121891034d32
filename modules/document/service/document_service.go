package service

import (
	"context"
	"fmt"
	"strings"

	"coach-portal-api/core/errors"
	"coach-portal-api/core/logger"
	"coach-portal-api/core/storage"
	"coach-portal-api/core/utils"
	"coach-portal-api/modules/document/dto"
	"coach-portal-api/modules/document/entity"
	"coach-portal-api/modules/document/repository"
	notificationDto "coach-portal-api/modules/notification/dto"
	notificationEntity "coach-portal-api/modules/notification/entity"
	notificationService "coach-portal-api/modules/notification/service"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type DocumentService interface {
	Upload(ctx context.Context, ownerID uuid.UUID, req *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, *errors.AppError)
	Download(ctx context.Context, id uuid.UUID) (*dto.DownloadDocumentResponse, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, *errors.AppError)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]entity.Document, *errors.AppError)
	Delete(ctx context.Context, id uuid.UUID) *errors.AppError
}

type documentService struct {
	repo          repository.DocumentRepository
	storage       storage.ObjectStorage
	notifications *notificationService.NotificationService
}

func NewDocumentService(repo repository.DocumentRepository, objectStorage storage.ObjectStorage, notifications *notificationService.NotificationService) DocumentService {
	return &documentService{
		repo:          repo,
		storage:       objectStorage,
		notifications: notifications,
	}
}

// Upload stores the document metadata and returns a presigned PUT URL. The
// client uploads the bytes straight to object storage.
func (s *documentService) Upload(ctx context.Context, ownerID uuid.UUID, req *dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, *errors.AppError) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}
	if req.ContentType == "" {
		req.ContentType = "application/octet-stream"
	}

	titleSlug := slug.Make(req.Title)
	document := &entity.Document{
		OwnerID:     ownerID,
		ClientID:    req.ClientID,
		Title:       req.Title,
		Slug:        titleSlug,
		StorageKey:  fmt.Sprintf("documents/%s-%s", utils.GenerateID(), titleSlug),
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	}

	uploadURL, err := s.storage.PresignUpload(ctx, document.StorageKey, document.ContentType)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to presign upload", err)
	}

	if err := s.repo.Create(ctx, document); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to store document", err)
	}

	if err := s.notifications.Create(ctx, &notificationDto.CreateNotificationRequest{
		UserID:  req.ClientID,
		Title:   "New document shared",
		Message: fmt.Sprintf("%q has been shared with you", req.Title),
		Type:    notificationEntity.TypeDocumentShared,
		Data:    map[string]interface{}{"document_id": document.ID.String()},
	}); err != nil {
		logger.Error("DocumentService:Upload notification failed", "document_id", document.ID, "error", err)
	}

	return &dto.UploadDocumentResponse{Document: *document, UploadURL: uploadURL}, nil
}

func (s *documentService) Download(ctx context.Context, id uuid.UUID) (*dto.DownloadDocumentResponse, *errors.AppError) {
	document, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	downloadURL, err := s.storage.PresignDownload(ctx, document.StorageKey)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to presign download", err)
	}
	return &dto.DownloadDocumentResponse{DownloadURL: downloadURL}, nil
}

func (s *documentService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, *errors.AppError) {
	document, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load document", err)
	}
	if document == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Document not found", nil)
	}
	return document, nil
}

func (s *documentService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]entity.Document, *errors.AppError) {
	documents, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list documents", err)
	}
	return documents, nil
}

// Delete removes the metadata row first, then the stored object. A failed
// object delete leaves an orphan in the bucket, never a dangling row.
func (s *documentService) Delete(ctx context.Context, id uuid.UUID) *errors.AppError {
	document, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return appErr
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete document", err)
	}
	if err := s.storage.DeleteObject(ctx, document.StorageKey); err != nil {
		logger.Error("DocumentService:Delete object removal failed", "document_id", id, "storage_key", document.StorageKey, "error", err)
	}
	return nil
}
