package entity

import (
	"time"

	"coach-portal-api/core/entity"
)

const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

type User struct {
	entity.BaseEntity
	Email           string     `db:"email" json:"email"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	FullName        string     `db:"full_name" json:"full_name"`
	Role            string     `db:"role" json:"role"`
	IsActive        bool       `db:"is_active" json:"is_active"`
	EmailVerifiedAt *time.Time `db:"email_verified_at" json:"email_verified_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}
