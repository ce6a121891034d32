package repository

import (
	"context"
	"database/sql"
	"errors"

	"coach-portal-api/core/database"
	"coach-portal-api/core/logger"
	"coach-portal-api/modules/document/entity"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]entity.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentRepository struct {
	db database.IDatabase
}

func NewDocumentRepository(db database.IDatabase) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, document *entity.Document) error {
	query := `
		INSERT INTO documents (id, owner_id, client_id, title, slug, storage_key, content_type, size_bytes, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		document.OwnerID, document.ClientID, document.Title, document.Slug,
		document.StorageKey, document.ContentType, document.SizeBytes).
		Scan(&document.ID, &document.CreatedAt, &document.UpdatedAt)
	if err != nil {
		logger.Error("DocumentRepository:Create", "owner_id", document.OwnerID, "error", err)
		return err
	}
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	var document entity.Document
	query := `SELECT * FROM documents WHERE id = $1`

	err := r.db.GetContext(ctx, &document, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("DocumentRepository:GetByID", "id", id, "error", err)
		return nil, err
	}
	return &document, nil
}

func (r *documentRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]entity.Document, error) {
	documents := []entity.Document{}
	query := `SELECT * FROM documents WHERE client_id = $1 ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &documents, query, clientID); err != nil {
		logger.Error("DocumentRepository:ListByClient", "client_id", clientID, "error", err)
		return nil, err
	}
	return documents, nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id); err != nil {
		logger.Error("DocumentRepository:Delete", "id", id, "error", err)
		return err
	}
	return nil
}
