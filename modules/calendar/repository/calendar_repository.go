package repository

import (
	"context"
	"database/sql"

	"coach-portal-api/core/database"
	"coach-portal-api/core/logger"
	"coach-portal-api/modules/calendar/entity"

	"github.com/google/uuid"
)

type CalendarRepository interface {
	// Connections
	UpsertConnection(ctx context.Context, conn *entity.CalendarConnection) error
	GetConnectionByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*entity.CalendarConnection, error)
	GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error)
	GetConnectedUserIDs(ctx context.Context) ([]uuid.UUID, error)
	UpdateConnectionTokens(ctx context.Context, conn *entity.CalendarConnection) error
	DeleteConnection(ctx context.Context, userID uuid.UUID, provider string) error

	// Provider credentials (one row per provider)
	GetCredentialByProvider(ctx context.Context, provider string) (*entity.CalendarCredential, error)
	UpsertCredential(ctx context.Context, cred *entity.CalendarCredential) error

	// Sync audit log (append-only)
	CreateSyncLog(ctx context.Context, entry *entity.SyncLogEntry) error
}

type calendarRepository struct {
	db database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) CalendarRepository {
	return &calendarRepository{db: db}
}

// UpsertConnection creates or replaces the connection for (user, provider).
func (r *calendarRepository) UpsertConnection(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		INSERT INTO calendar_connections (id, user_id, provider, access_token, refresh_token, token_expires_at, calendar_email, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id, provider)
		DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expires_at = EXCLUDED.token_expires_at,
			calendar_email = EXCLUDED.calendar_email,
			updated_at = NOW()
	`
	err := r.db.ExecContext(ctx, query,
		conn.UserID, conn.Provider, conn.AccessToken, conn.RefreshToken,
		conn.TokenExpiresAt, conn.CalendarEmail,
	)
	if err != nil {
		logger.Error("CalendarRepository:UpsertConnection:Error", "error", err, "user_id", conn.UserID, "provider", conn.Provider)
		return err
	}
	return nil
}

func (r *calendarRepository) GetConnectionByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*entity.CalendarConnection, error) {
	var conn entity.CalendarConnection
	query := `
		SELECT id, user_id, provider, access_token, refresh_token, token_expires_at, calendar_email, created_at, updated_at
		FROM calendar_connections
		WHERE user_id = $1 AND provider = $2
	`
	err := r.db.GetContext(ctx, &conn, query, userID, provider)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetConnectionByUserAndProvider:Error", "error", err, "user_id", userID, "provider", provider)
		return nil, err
	}
	return &conn, nil
}

func (r *calendarRepository) GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error) {
	var connections []entity.CalendarConnection
	query := `
		SELECT id, user_id, provider, access_token, refresh_token, token_expires_at, calendar_email, created_at, updated_at
		FROM calendar_connections
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &connections, query, userID)
	if err != nil {
		logger.Error("CalendarRepository:GetConnectionsByUserID:Error", "error", err, "user_id", userID)
		return nil, err
	}
	return connections, nil
}

// GetConnectedUserIDs returns every user with at least one calendar
// connection, used to fan out background sync tasks after booking changes.
func (r *calendarRepository) GetConnectedUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT DISTINCT user_id FROM calendar_connections`

	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		logger.Error("CalendarRepository:GetConnectedUserIDs:Error", "error", err)
		return nil, err
	}
	return ids, nil
}

// UpdateConnectionTokens persists refreshed tokens on an existing connection.
func (r *calendarRepository) UpdateConnectionTokens(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		UPDATE calendar_connections
		SET access_token = $1, refresh_token = $2, token_expires_at = $3, updated_at = NOW()
		WHERE id = $4
	`
	err := r.db.ExecContext(ctx, query, conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt, conn.ID)
	if err != nil {
		logger.Error("CalendarRepository:UpdateConnectionTokens:Error", "error", err, "connection_id", conn.ID)
		return err
	}
	return nil
}

// DeleteConnection removes the connection for (user, provider). Deleting a
// row that does not exist is not an error.
func (r *calendarRepository) DeleteConnection(ctx context.Context, userID uuid.UUID, provider string) error {
	query := `DELETE FROM calendar_connections WHERE user_id = $1 AND provider = $2`
	err := r.db.ExecContext(ctx, query, userID, provider)
	if err != nil {
		logger.Error("CalendarRepository:DeleteConnection:Error", "error", err, "user_id", userID, "provider", provider)
		return err
	}
	return nil
}

func (r *calendarRepository) GetCredentialByProvider(ctx context.Context, provider string) (*entity.CalendarCredential, error) {
	var cred entity.CalendarCredential
	query := `SELECT id, provider, client_id, client_secret, created_at, updated_at FROM calendar_credentials WHERE provider = $1`
	err := r.db.GetContext(ctx, &cred, query, provider)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetCredentialByProvider:Error", "error", err, "provider", provider)
		return nil, err
	}
	return &cred, nil
}

func (r *calendarRepository) UpsertCredential(ctx context.Context, cred *entity.CalendarCredential) error {
	query := `
		INSERT INTO calendar_credentials (id, provider, client_id, client_secret, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, NOW(), NOW())
		ON CONFLICT (provider)
		DO UPDATE SET
			client_id = EXCLUDED.client_id,
			client_secret = EXCLUDED.client_secret,
			updated_at = NOW()
	`
	err := r.db.ExecContext(ctx, query, cred.Provider, cred.ClientID, cred.ClientSecret)
	if err != nil {
		logger.Error("CalendarRepository:UpsertCredential:Error", "error", err, "provider", cred.Provider)
		return err
	}
	return nil
}

func (r *calendarRepository) CreateSyncLog(ctx context.Context, entry *entity.SyncLogEntry) error {
	query := `
		INSERT INTO calendar_sync_logs (id, connection_id, direction, status, detail, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, NOW())
	`
	err := r.db.ExecContext(ctx, query, entry.ConnectionID, entry.Direction, entry.Status, entry.Detail)
	if err != nil {
		logger.Error("CalendarRepository:CreateSyncLog:Error", "error", err, "connection_id", entry.ConnectionID)
		return err
	}
	return nil
}
