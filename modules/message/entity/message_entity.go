package entity

import (
	"time"

	"coach-portal-api/core/entity"

	"github.com/google/uuid"
)

type Message struct {
	entity.BaseEntity
	SenderID    uuid.UUID  `db:"sender_id" json:"sender_id"`
	RecipientID uuid.UUID  `db:"recipient_id" json:"recipient_id"`
	Body        string     `db:"body" json:"body"`
	ReadAt      *time.Time `db:"read_at" json:"read_at"`
}

func (Message) TableName() string {
	return "messages"
}

type PaginatedMessageEntity = entity.Pagination[Message]
