package service

import (
	"context"
	"fmt"

	"coach-portal-api/core/errors"
	"coach-portal-api/core/logger"
	"coach-portal-api/core/params"
	"coach-portal-api/core/queue"
	"coach-portal-api/core/utils"
	authRepository "coach-portal-api/modules/auth/repository"
	"coach-portal-api/modules/booking/dto"
	"coach-portal-api/modules/booking/entity"
	"coach-portal-api/modules/booking/repository"
	notificationDto "coach-portal-api/modules/notification/dto"
	notificationEntity "coach-portal-api/modules/notification/entity"
	notificationService "coach-portal-api/modules/notification/service"

	"github.com/google/uuid"
)

// SyncTargets lists the users whose calendars should be refreshed after a
// booking change.
type SyncTargets interface {
	GetConnectedUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

type BookingService interface {
	Create(ctx context.Context, clientID uuid.UUID, req *dto.CreateBookingRequest) (*entity.Booking, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, *errors.AppError)
	List(ctx context.Context, qp *params.QueryParams) (*dto.BookingListResponse, *errors.AppError)
	ListByClient(ctx context.Context, clientID uuid.UUID, qp *params.QueryParams) (*dto.BookingListResponse, *errors.AppError)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateBookingRequest) (*entity.Booking, *errors.AppError)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*entity.Booking, *errors.AppError)
	Delete(ctx context.Context, id uuid.UUID) *errors.AppError
}

type bookingService struct {
	repo          repository.BookingRepository
	users         authRepository.AuthRepository
	notifications *notificationService.NotificationService
	queue         *queue.Client
	syncTargets   SyncTargets
}

func NewBookingService(
	repo repository.BookingRepository,
	users authRepository.AuthRepository,
	notifications *notificationService.NotificationService,
	queueClient *queue.Client,
	syncTargets SyncTargets,
) BookingService {
	return &bookingService{
		repo:          repo,
		users:         users,
		notifications: notifications,
		queue:         queueClient,
		syncTargets:   syncTargets,
	}
}

func (s *bookingService) Create(ctx context.Context, clientID uuid.UUID, req *dto.CreateBookingRequest) (*entity.Booking, *errors.AppError) {
	booking := &entity.Booking{
		ClientID:    clientID,
		SessionDate: req.SessionDate,
		SessionType: req.SessionType,
		Status:      entity.StatusPending,
		Goals:       req.Goals,
		Notes:       req.Notes,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create booking", err)
	}

	logger.Info("BookingService:Create", "booking_id", booking.ID, "client_id", clientID)
	s.afterChange(ctx, booking, notificationEntity.TypeBookingCreated, "Booking requested",
		fmt.Sprintf("Your %s session on %s is awaiting confirmation", booking.SessionType, booking.SessionDate.Format("Jan 2, 2006 15:04")))
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, *errors.AppError) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load booking", err)
	}
	if booking == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Booking not found", nil)
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, qp *params.QueryParams) (*dto.BookingListResponse, *errors.AppError) {
	bookings, total, err := s.repo.List(ctx, qp)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list bookings", err)
	}
	return &dto.BookingListResponse{Bookings: bookings, Total: total}, nil
}

func (s *bookingService) ListByClient(ctx context.Context, clientID uuid.UUID, qp *params.QueryParams) (*dto.BookingListResponse, *errors.AppError) {
	bookings, total, err := s.repo.ListByClient(ctx, clientID, qp)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list bookings", err)
	}
	return &dto.BookingListResponse{Bookings: bookings, Total: total}, nil
}

func (s *bookingService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateBookingRequest) (*entity.Booking, *errors.AppError) {
	booking, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	if req.SessionDate != nil {
		booking.SessionDate = *req.SessionDate
	}
	if req.SessionType != nil {
		booking.SessionType = *req.SessionType
	}
	if req.Goals != nil {
		booking.Goals = *req.Goals
	}
	if req.Notes != nil {
		booking.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update booking", err)
	}

	s.afterChange(ctx, booking, notificationEntity.TypeBookingUpdated, "Booking updated",
		fmt.Sprintf("Your %s session now takes place on %s", booking.SessionType, booking.SessionDate.Format("Jan 2, 2006 15:04")))
	return booking, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*entity.Booking, *errors.AppError) {
	if status != entity.StatusPending && status != entity.StatusConfirmed && status != entity.StatusCancelled {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid booking status", nil)
	}

	booking, appErr := s.GetByID(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update booking status", err)
	}
	booking.Status = status

	s.afterChange(ctx, booking, notificationEntity.TypeBookingStatus, "Booking "+status,
		fmt.Sprintf("Your %s session on %s is now %s", booking.SessionType, booking.SessionDate.Format("Jan 2, 2006 15:04"), status))
	return booking, nil
}

func (s *bookingService) Delete(ctx context.Context, id uuid.UUID) *errors.AppError {
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete booking", err)
	}
	s.enqueueSyncTasks(ctx)
	return nil
}

// afterChange fans out the side effects of a booking mutation: a notification
// row, a templated email and one calendar sync task per connected user. All of
// them are best-effort; the booking write has already committed.
func (s *bookingService) afterChange(ctx context.Context, booking *entity.Booking, notifType, title, message string) {
	if err := s.notifications.Create(ctx, &notificationDto.CreateNotificationRequest{
		UserID:  booking.ClientID,
		Title:   title,
		Message: message,
		Type:    notifType,
		Data:    map[string]interface{}{"booking_id": booking.ID.String()},
	}); err != nil {
		logger.Error("BookingService:afterChange notification failed", "booking_id", booking.ID, "error", err)
	}

	client, err := s.users.GetUserByID(ctx, booking.ClientID)
	if err != nil || client == nil {
		logger.Error("BookingService:afterChange client lookup failed", "client_id", booking.ClientID, "error", err)
	} else {
		if err := s.queue.EnqueueEmail(queue.EmailSendPayload{
			To:       []string{client.Email},
			Subject:  title,
			Template: "booking_update",
			Data: utils.TemplateData{
				RecipientName: client.FullName,
				SessionType:   booking.SessionType,
				SessionDate:   booking.SessionDate.Format("Jan 2, 2006 15:04"),
				Status:        booking.Status,
				Message:       message,
			},
		}); err != nil {
			logger.Error("BookingService:afterChange email enqueue failed", "booking_id", booking.ID, "error", err)
		}
	}

	s.enqueueSyncTasks(ctx)
}

func (s *bookingService) enqueueSyncTasks(ctx context.Context) {
	userIDs, err := s.syncTargets.GetConnectedUserIDs(ctx)
	if err != nil {
		logger.Error("BookingService:enqueueSyncTasks target lookup failed", "error", err)
		return
	}
	for _, userID := range userIDs {
		if err := s.queue.EnqueueCalendarSync(queue.CalendarSyncPayload{UserID: userID}); err != nil {
			logger.Error("BookingService:enqueueSyncTasks enqueue failed", "user_id", userID, "error", err)
		}
	}
}
