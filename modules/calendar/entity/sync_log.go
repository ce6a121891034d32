package entity

import (
	"time"

	"github.com/google/uuid"
)

// Sync log statuses
const (
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// SyncDirectionPush is the only direction this reconciler performs.
const SyncDirectionPush = "push"

// SyncLogEntry is an append-only audit record written at the end of every
// sync invocation. Entries are never mutated or deleted.
type SyncLogEntry struct {
	ID           uuid.UUID `db:"id" json:"id"`
	ConnectionID uuid.UUID `db:"connection_id" json:"connection_id"`
	Direction    string    `db:"direction" json:"direction"`
	Status       string    `db:"status" json:"status"`
	Detail       string    `db:"detail" json:"detail"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (SyncLogEntry) TableName() string {
	return "calendar_sync_logs"
}
