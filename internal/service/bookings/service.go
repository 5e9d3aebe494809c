package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	bookingRepo "github.com/v-gridnev/MH-BookingService/internal/infra/storage/booking"
	"github.com/v-gridnev/MH-BookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	dispatcher  Dispatcher
	cache       CacheInvalidator // nil, если кэш выключен
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	dispatcher Dispatcher,
	cache CacheInvalidator,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		dispatcher:  dispatcher,
		cache:       cache,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - бронирование видят только его ментор и менти
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.MentorID != userID && booking.MenteeID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetMenteeBookings получает историю бронирований менти
// Опционально фильтрует по статусу
func (s *Service) GetMenteeBookings(ctx context.Context, req *models.GetMenteeBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetMenteeBookings: fetching bookings for mentee=%d, status=%v", req.MenteeID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetMenteeBookings: invalid status=%s for mentee=%d", *req.Status, req.MenteeID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByMenteeID(ctx, req.MenteeID, domainStatus)
	if err != nil {
		s.logger.Error("GetMenteeBookings: repository error for mentee=%d: %v", req.MenteeID, err)
		return nil, fmt.Errorf("%w: GetMenteeBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetMenteeBookings: successfully fetched %d bookings for mentee=%d", len(bookings), req.MenteeID)
	return models.FromDomainBookingList(bookings), nil
}

// GetMentorBookings получает бронирования ментора с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению отменённых
// Доступно только самому ментору
func (s *Service) GetMentorBookings(ctx context.Context, req *models.GetMentorBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetMentorBookings: fetching bookings for mentor=%d, user=%d", req.MentorID, req.UserID)

	// Расписание ментора с контактами менти - только для самого ментора
	if req.UserID != req.MentorID {
		s.logger.Warn("GetMentorBookings: access denied for user=%d to mentor=%d bookings", req.UserID, req.MentorID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetMentorBookings: invalid filter for mentor=%d: %v", req.MentorID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByMentorWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetMentorBookings: repository error for mentor=%d: %v", req.MentorID, err)
		return nil, fmt.Errorf("%w: GetMentorBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetMentorBookings: successfully fetched %d bookings for mentor=%d", len(bookings), req.MentorID)
	return models.FromDomainBookingList(bookings), nil
}

// Decline отклоняет ожидающий запрос на бронирование.
// Доступно только ментору. Отклонённая запись удаляется физически:
// отклонение не оставляет следа в истории, слот сразу освобождается.
func (s *Service) Decline(ctx context.Context, bookingID int64, req *models.DeclineBookingRequest) error {
	s.logger.Info("Decline: declining booking id=%d by mentor=%d", bookingID, req.MentorID)

	var declined *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Decline - repository error: %v", ErrInternal, err)
		}

		if booking.MentorID != req.MentorID {
			return ErrAccessDenied
		}

		if booking.Status != domain.StatusPendingApproval {
			return ErrCannotDecline
		}

		if err := s.bookingRepo.Delete(txCtx, booking.ID); err != nil {
			return fmt.Errorf("%w: Decline - repository error: %v", ErrInternal, err)
		}

		declined = booking
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			s.logger.Warn("Decline: booking id=%d not found", bookingID)
		}
		if errors.Is(err, ErrCannotDecline) {
			s.logger.Warn("Decline: booking id=%d is not pending", bookingID)
		}
		return err
	}

	s.logger.Info("Decline: successfully declined booking id=%d", bookingID)

	if s.cache != nil {
		s.cache.Invalidate(ctx, declined.MentorID)
	}
	s.dispatcher.BookingDeclined(ctx, declined)

	return nil
}

// Cancel отменяет бронирование
// Менти может отменить своё бронирование (cancelled by mentee),
// ментор - любое своё (cancelled by mentor). Повторная отмена уже
// отменённого бронирования - no-op
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		s.logger.Warn("Cancel: cancellation reason too long for booking id=%d", bookingID)
		return fmt.Errorf("%w: cancellation reason too long", ErrInvalidInput)
	}

	var (
		cancelled        *domain.Booking
		alreadyCancelled bool
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		var actor domain.CancelActor
		switch req.UserID {
		case booking.MenteeID:
			actor = domain.CancelledByMentee
		case booking.MentorID:
			actor = domain.CancelledByMentor
		default:
			return ErrAccessDenied
		}

		// Повторная доставка той же отмены: состояние уже достигнуто
		if booking.Status == domain.StatusCancelled {
			alreadyCancelled = true
			return nil
		}

		if err := s.bookingRepo.Cancel(txCtx, booking.ID, req.CancellationReason, actor); err != nil {
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusCancelled
		booking.CancellationReason = req.CancellationReason
		booking.CancelledBy = &actor
		cancelled = booking
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
		}
		return err
	}

	if alreadyCancelled {
		s.logger.Info("Cancel: booking id=%d already cancelled, no-op", bookingID)
		return nil
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d by %s", bookingID, *cancelled.CancelledBy)

	if s.cache != nil {
		s.cache.Invalidate(ctx, cancelled.MentorID)
	}
	s.dispatcher.BookingCancelled(ctx, cancelled)

	return nil
}
