package dto

import (
	"coach-portal-api/modules/document/entity"

	"github.com/google/uuid"
)

type UploadDocumentRequest struct {
	ClientID    uuid.UUID `json:"client_id"`
	Title       string    `json:"title"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
}

type UploadDocumentResponse struct {
	Document  entity.Document `json:"document"`
	UploadURL string          `json:"upload_url"`
}

type DownloadDocumentResponse struct {
	DownloadURL string `json:"download_url"`
}

type DocumentListResponse struct {
	Documents []entity.Document `json:"documents"`
}
