package service

import (
	"context"
	"strings"

	"coach-portal-api/core/errors"
	"coach-portal-api/core/logger"
	"coach-portal-api/core/params"
	authRepository "coach-portal-api/modules/auth/repository"
	"coach-portal-api/modules/message/dto"
	"coach-portal-api/modules/message/entity"
	"coach-portal-api/modules/message/repository"
	notificationDto "coach-portal-api/modules/notification/dto"
	notificationEntity "coach-portal-api/modules/notification/entity"
	notificationService "coach-portal-api/modules/notification/service"

	"github.com/google/uuid"
)

type MessageService interface {
	Send(ctx context.Context, senderID uuid.UUID, req *dto.SendMessageRequest) (*entity.Message, *errors.AppError)
	GetConversation(ctx context.Context, userID, otherID uuid.UUID, qp params.QueryParams) (*entity.PaginatedMessageEntity, *errors.AppError)
	MarkConversationRead(ctx context.Context, userID, senderID uuid.UUID) *errors.AppError
	CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError)
}

type messageService struct {
	repo          repository.MessageRepository
	users         authRepository.AuthRepository
	notifications *notificationService.NotificationService
}

func NewMessageService(repo repository.MessageRepository, users authRepository.AuthRepository, notifications *notificationService.NotificationService) MessageService {
	return &messageService{repo: repo, users: users, notifications: notifications}
}

func (s *messageService) Send(ctx context.Context, senderID uuid.UUID, req *dto.SendMessageRequest) (*entity.Message, *errors.AppError) {
	if strings.TrimSpace(req.Body) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Message body is empty", nil)
	}
	if req.RecipientID == senderID {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Cannot message yourself", nil)
	}

	recipient, err := s.users.GetUserByID(ctx, req.RecipientID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load recipient", err)
	}
	if recipient == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Recipient not found", nil)
	}

	message := &entity.Message{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to send message", err)
	}

	if err := s.notifications.Create(ctx, &notificationDto.CreateNotificationRequest{
		UserID:  req.RecipientID,
		Title:   "New message",
		Message: "You have received a new message",
		Type:    notificationEntity.TypeMessageReceived,
		Data:    map[string]interface{}{"message_id": message.ID.String(), "sender_id": senderID.String()},
	}); err != nil {
		logger.Error("MessageService:Send notification failed", "message_id", message.ID, "error", err)
	}
	return message, nil
}

func (s *messageService) GetConversation(ctx context.Context, userID, otherID uuid.UUID, qp params.QueryParams) (*entity.PaginatedMessageEntity, *errors.AppError) {
	conversation, err := s.repo.GetConversation(ctx, userID, otherID, qp)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load conversation", err)
	}
	return conversation, nil
}

func (s *messageService) MarkConversationRead(ctx context.Context, userID, senderID uuid.UUID) *errors.AppError {
	if err := s.repo.MarkConversationRead(ctx, userID, senderID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to mark conversation read", err)
	}
	return nil
}

func (s *messageService) CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrInternalServer, "Failed to count unread messages", err)
	}
	return count, nil
}
