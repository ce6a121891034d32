package dto

import "github.com/google/uuid"

type SendMessageRequest struct {
	RecipientID uuid.UUID `json:"recipient_id"`
	Body        string    `json:"body"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}
