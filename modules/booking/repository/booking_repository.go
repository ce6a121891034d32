package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coach-portal-api/core/database"
	"coach-portal-api/core/logger"
	"coach-portal-api/core/params"
	"coach-portal-api/modules/booking/entity"

	"github.com/google/uuid"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	List(ctx context.Context, qp *params.QueryParams) ([]entity.Booking, int, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, qp *params.QueryParams) ([]entity.Booking, int, error)
	Update(ctx context.Context, booking *entity.Booking) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetBookingsForSync(ctx context.Context, from, to time.Time) ([]entity.BookingSyncRow, error)
}

type bookingRepository struct {
	db database.IDatabase
}

func NewBookingRepository(db database.IDatabase) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, client_id, session_date, session_type, status, goals, notes, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		booking.ClientID, booking.SessionDate, booking.SessionType, booking.Status, booking.Goals, booking.Notes).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		logger.Error("BookingRepository:Create", "client_id", booking.ClientID, "error", err)
		return err
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	query := `SELECT * FROM bookings WHERE id = $1`

	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("BookingRepository:GetByID", "id", id, "error", err)
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, qp *params.QueryParams) ([]entity.Booking, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM bookings`); err != nil {
		logger.Error("BookingRepository:List count", "error", err)
		return nil, 0, err
	}

	bookings := []entity.Booking{}
	query := `SELECT * FROM bookings ORDER BY session_date DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &bookings, query, qp.PageSize, qp.Offset()); err != nil {
		logger.Error("BookingRepository:List", "error", err)
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *bookingRepository) ListByClient(ctx context.Context, clientID uuid.UUID, qp *params.QueryParams) ([]entity.Booking, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM bookings WHERE client_id = $1`, clientID); err != nil {
		logger.Error("BookingRepository:ListByClient count", "client_id", clientID, "error", err)
		return nil, 0, err
	}

	bookings := []entity.Booking{}
	query := `SELECT * FROM bookings WHERE client_id = $1 ORDER BY session_date DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &bookings, query, clientID, qp.PageSize, qp.Offset()); err != nil {
		logger.Error("BookingRepository:ListByClient", "client_id", clientID, "error", err)
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET session_date = $2, session_type = $3, goals = $4, notes = $5, updated_at = NOW()
		WHERE id = $1`

	if err := r.db.ExecContext(ctx, query,
		booking.ID, booking.SessionDate, booking.SessionType, booking.Goals, booking.Notes); err != nil {
		logger.Error("BookingRepository:Update", "id", booking.ID, "error", err)
		return err
	}
	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	if err := r.db.ExecContext(ctx, query, id, status); err != nil {
		logger.Error("BookingRepository:UpdateStatus", "id", id, "status", status, "error", err)
		return err
	}
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id); err != nil {
		logger.Error("BookingRepository:Delete", "id", id, "error", err)
		return err
	}
	return nil
}

// GetBookingsForSync returns confirmed and pending bookings inside the window,
// joined with the client's name for the event summary.
func (r *bookingRepository) GetBookingsForSync(ctx context.Context, from, to time.Time) ([]entity.BookingSyncRow, error) {
	rows := []entity.BookingSyncRow{}
	query := `
		SELECT b.id, u.full_name AS client_name, b.session_type, b.goals, b.session_date, b.status
		FROM bookings b
		JOIN users u ON u.id = b.client_id
		WHERE b.status IN ($1, $2)
		  AND b.session_date >= $3
		  AND b.session_date <= $4
		ORDER BY b.session_date`

	if err := r.db.SelectContext(ctx, &rows, query, entity.StatusConfirmed, entity.StatusPending, from, to); err != nil {
		logger.Error("BookingRepository:GetBookingsForSync", "error", err)
		return nil, err
	}
	return rows, nil
}
