package repository

import (
	"context"

	"coach-portal-api/core/database"
	"coach-portal-api/core/logger"
	"coach-portal-api/core/params"
	"coach-portal-api/modules/message/entity"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	GetConversation(ctx context.Context, userA, userB uuid.UUID, qp params.QueryParams) (*entity.PaginatedMessageEntity, error)
	MarkConversationRead(ctx context.Context, recipientID, senderID uuid.UUID) error
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
}

type messageRepository struct {
	db database.IDatabase
}

func NewMessageRepository(db database.IDatabase) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, recipient_id, body, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, message.SenderID, message.RecipientID, message.Body).
		Scan(&message.ID, &message.CreatedAt, &message.UpdatedAt)
	if err != nil {
		logger.Error("MessageRepository:Create", "sender_id", message.SenderID, "error", err)
		return err
	}
	return nil
}

func (r *messageRepository) GetConversation(ctx context.Context, userA, userB uuid.UUID, qp params.QueryParams) (*entity.PaginatedMessageEntity, error) {
	baseQuery := `
		FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)`

	var totalItems int
	if err := r.db.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, userA, userB); err != nil {
		logger.Error("MessageRepository:GetConversation count", "error", err)
		return nil, err
	}

	query := `SELECT * ` + baseQuery + `
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	var messages []entity.Message
	if err := r.db.SelectContext(ctx, &messages, query, userA, userB, qp.PageSize, qp.Offset()); err != nil {
		logger.Error("MessageRepository:GetConversation select", "error", err)
		return nil, err
	}

	return &entity.PaginatedMessageEntity{
		Items:      messages,
		TotalItems: totalItems,
		PageNumber: qp.PageNumber,
		PageSize:   qp.PageSize,
	}, nil
}

func (r *messageRepository) MarkConversationRead(ctx context.Context, recipientID, senderID uuid.UUID) error {
	query := `
		UPDATE messages SET read_at = NOW(), updated_at = NOW()
		WHERE recipient_id = $1 AND sender_id = $2 AND read_at IS NULL`

	if err := r.db.ExecContext(ctx, query, recipientID, senderID); err != nil {
		logger.Error("MessageRepository:MarkConversationRead", "recipient_id", recipientID, "error", err)
		return err
	}
	return nil
}

func (r *messageRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND read_at IS NULL`
	if err := r.db.GetContext(ctx, &count, query, recipientID); err != nil {
		logger.Error("MessageRepository:CountUnread", "recipient_id", recipientID, "error", err)
		return 0, err
	}
	return count, nil
}
