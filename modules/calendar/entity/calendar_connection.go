package entity

import (
	"time"

	"coach-portal-api/core/entity"

	"github.com/google/uuid"
)

// CalendarConnection stores a user's calendar provider connection. There is
// at most one row per (user, provider); writes go through an upsert keyed on
// that pair.
type CalendarConnection struct {
	entity.BaseEntity
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	Provider       string     `db:"provider" json:"provider"` // "google" | "outlook"
	AccessToken    string     `db:"access_token" json:"-"`
	RefreshToken   *string    `db:"refresh_token" json:"-"`
	TokenExpiresAt *time.Time `db:"token_expires_at" json:"token_expires_at"`
	CalendarEmail  string     `db:"calendar_email" json:"calendar_email"`
}

func (CalendarConnection) TableName() string {
	return "calendar_connections"
}
