package approve_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	bookingRepo "github.com/v-gridnev/MH-BookingService/internal/infra/storage/booking"
)

// UseCase use case подтверждения бронирования ментором
type UseCase struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	dispatcher  Dispatcher
	cache       CacheInvalidator // nil, если кэш выключен
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	dispatcher Dispatcher,
	cache CacheInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		dispatcher:  dispatcher,
		cache:       cache,
		logger:      logger,
	}
}

// Execute подтверждает ожидающее бронирование.
// Перед переводом в confirmed пересечения перепроверяются на живых данных:
// если слот за время ожидания заняло другое подтверждённое бронирование,
// подтверждаемый запрос удаляется, побеждает уже подтверждённое.
// Повторное подтверждение уже подтверждённого бронирования — no-op.
func (uc *UseCase) Execute(ctx context.Context, bookingID, actorID int64) (*Response, error) {
	uc.logger.Info("ApproveBooking: booking=%d, actor=%d", bookingID, actorID)

	var (
		result           *domain.Booking
		alreadyConfirmed bool
		conflictingLoser bool
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.MentorID != actorID {
			return ErrAccessDenied
		}

		// Повторная доставка того же approve: состояние уже достигнуто
		if booking.Status == domain.StatusConfirmed {
			result = booking
			alreadyConfirmed = true
			return nil
		}
		if booking.Status != domain.StatusPendingApproval {
			return ErrInvalidStatus
		}

		// Живые пересечения без самого подтверждаемого бронирования
		overlapping, err := uc.bookingRepo.GetActiveOverlapping(
			txCtx, booking.MentorID, booking.StartTime, booking.EndTime, &booking.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to check overlapping bookings: %v", ErrInternal, err)
		}
		for _, other := range overlapping {
			if other.Status == domain.StatusConfirmed {
				// Слот уже отдан: проигравший pending-запрос удаляется
				if err := uc.bookingRepo.Delete(txCtx, booking.ID); err != nil {
					return fmt.Errorf("%w: failed to delete losing booking: %v", ErrInternal, err)
				}
				conflictingLoser = true
				result = booking
				return nil
			}
		}

		if err := uc.bookingRepo.UpdateStatus(
			txCtx, booking.ID, domain.StatusPendingApproval, domain.StatusConfirmed); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				return ErrInvalidStatus
			}
			return fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusConfirmed
		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	if conflictingLoser {
		uc.logger.Warn("ApproveBooking: booking=%d lost to a confirmed overlap, deleted", bookingID)
		uc.dispatcher.BookingConflict(ctx)
		if uc.cache != nil {
			uc.cache.Invalidate(ctx, result.MentorID)
		}
		return nil, ErrApproveConflict
	}

	if alreadyConfirmed {
		uc.logger.Info("ApproveBooking: booking=%d already confirmed, no-op", bookingID)
		return toResponse(result), nil
	}

	uc.logger.Info("ApproveBooking: booking=%d confirmed", bookingID)

	if uc.cache != nil {
		uc.cache.Invalidate(ctx, result.MentorID)
	}
	uc.dispatcher.BookingApproved(ctx, result)

	return toResponse(result), nil
}
