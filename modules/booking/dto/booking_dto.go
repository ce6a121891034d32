package dto

import (
	"time"

	"coach-portal-api/modules/booking/entity"
)

type CreateBookingRequest struct {
	SessionDate time.Time `json:"session_date"`
	SessionType string    `json:"session_type"`
	Goals       string    `json:"goals"`
	Notes       string    `json:"notes"`
}

type UpdateBookingRequest struct {
	SessionDate *time.Time `json:"session_date"`
	SessionType *string    `json:"session_type"`
	Goals       *string    `json:"goals"`
	Notes       *string    `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type BookingListResponse struct {
	Bookings []entity.Booking `json:"bookings"`
	Total    int              `json:"total"`
}
