package entity

import (
	"time"

	"coach-portal-api/core/entity"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Booking struct {
	entity.BaseEntity
	ClientID    uuid.UUID `db:"client_id" json:"client_id"`
	SessionDate time.Time `db:"session_date" json:"session_date"`
	SessionType string    `db:"session_type" json:"session_type"`
	Status      string    `db:"status" json:"status"`
	Goals       string    `db:"goals" json:"goals"`
	Notes       string    `db:"notes" json:"notes"`
}

func (Booking) TableName() string {
	return "bookings"
}

// BookingSyncRow is a booking joined with its client's name, as consumed by
// the calendar push.
type BookingSyncRow struct {
	ID          uuid.UUID `db:"id"`
	ClientName  string    `db:"client_name"`
	SessionType string    `db:"session_type"`
	Goals       string    `db:"goals"`
	SessionDate time.Time `db:"session_date"`
	Status      string    `db:"status"`
}
