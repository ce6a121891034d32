package entity

import (
	"coach-portal-api/core/entity"

	"github.com/google/uuid"
)

type Document struct {
	entity.BaseEntity
	OwnerID     uuid.UUID `db:"owner_id" json:"owner_id"`
	ClientID    uuid.UUID `db:"client_id" json:"client_id"`
	Title       string    `db:"title" json:"title"`
	Slug        string    `db:"slug" json:"slug"`
	StorageKey  string    `db:"storage_key" json:"-"`
	ContentType string    `db:"content_type" json:"content_type"`
	SizeBytes   int64     `db:"size_bytes" json:"size_bytes"`
}

func (Document) TableName() string {
	return "documents"
}
