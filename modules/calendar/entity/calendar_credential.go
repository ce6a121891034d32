package entity

import "coach-portal-api/core/entity"

// CalendarCredential holds the OAuth app registration for one provider. A
// single row per provider serves every user's OAuth flow; this is an
// application-level registration, not a per-tenant one.
type CalendarCredential struct {
	entity.BaseEntity
	Provider     string `db:"provider" json:"provider"`
	ClientID     string `db:"client_id" json:"client_id"`
	ClientSecret string `db:"client_secret" json:"-"`
}

func (CalendarCredential) TableName() string {
	return "calendar_credentials"
}
