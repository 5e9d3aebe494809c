package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	availabilityRepo "github.com/v-gridnev/MH-BookingService/internal/infra/storage/availability"
	profileClient "github.com/v-gridnev/MH-BookingService/internal/integrations/profileservice"
)

// UseCase use case создания бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	profileClient    ProfileServiceClient
	txManager        TransactionManager
	dispatcher       Dispatcher
	cache            CacheInvalidator // nil, если кэш выключен
	leadTime         time.Duration
	horizon          time.Duration
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	dispatcher Dispatcher,
	cache CacheInvalidator,
	leadTime time.Duration,
	horizon time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		profileClient:    profileClient,
		txManager:        txManager,
		dispatcher:       dispatcher,
		cache:            cache,
		leadTime:         leadTime,
		horizon:          horizon,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка занятости слота и вставка выполняются в одной сериализуемой
// транзакции: это закрывает гонку между последним чтением доступности
// клиентом и этой записью. Из двух одновременных создании одного слота
// коммитится ровно одно, второе получает ErrSlotTaken.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: mentor=%d, mentee=%d, start=%s",
		req.MentorID, req.MenteeID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных до обращения к хранилищу
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	start := req.StartTime.UTC()
	end := req.EndTime.UTC()

	// 2. Политика: lead time и горизонт
	if err := validatePolicy(start, now, uc.leadTime, uc.horizon); err != nil {
		uc.logger.Warn("CreateBooking: policy check failed: %v", err)
		return nil, err
	}

	// 3. Профиль менти (существование + таймзона для отображения)
	profile, err := uc.profileClient.GetProfile(ctx, req.MenteeID)
	if err != nil {
		if errors.Is(err, profileClient.ErrProfileNotFound) {
			uc.logger.Warn("CreateBooking: mentee=%d not found", req.MenteeID)
			return nil, ErrMenteeNotFound
		}
		uc.logger.Error("CreateBooking: failed to get mentee profile id=%d: %v", req.MenteeID, err)
		return nil, fmt.Errorf("%w: failed to get mentee profile: %v", ErrInternal, err)
	}

	var result *domain.Booking

	// 4. Сериализуемая транзакция: перепроверка сетки и занятости на живых
	// данных, затем вставка
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		cfg, err := uc.availabilityRepo.GetByMentorID(txCtx, req.MentorID)
		if err != nil {
			if errors.Is(err, availabilityRepo.ErrConfigNotFound) {
				return ErrMentorNotConfigured
			}
			return fmt.Errorf("%w: failed to get availability config: %v", ErrInternal, err)
		}

		loc, err := cfg.Location()
		if err != nil {
			return fmt.Errorf("%w: unresolvable timezone %q", ErrInvalidConfiguration, cfg.Timezone)
		}

		if err := validateDuration(start, end, cfg); err != nil {
			return err
		}

		if err := validateOnGrid(start, end, cfg, loc); err != nil {
			return err
		}

		// Живые пересечения с блокировкой строк (FOR UPDATE)
		overlapping, err := uc.bookingRepo.GetActiveOverlapping(txCtx, req.MentorID, start, end, nil)
		if err != nil {
			return fmt.Errorf("%w: failed to check overlapping bookings: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			return ErrSlotTaken
		}

		status := domain.StatusPendingApproval
		if cfg.AutoApprove {
			status = domain.StatusConfirmed
		}

		booking := &domain.Booking{
			MentorID:           req.MentorID,
			MenteeID:           req.MenteeID,
			StartTime:          start,
			EndTime:            end,
			RequesterTimezone:  displayTimezone(req.Timezone, profile.Timezone),
			Status:             status,
			CalendarSyncStatus: domain.SyncNotConnected,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			uc.dispatcher.BookingConflict(ctx)
			uc.logger.Warn("CreateBooking: slot taken, mentor=%d, start=%s",
				req.MentorID, start.Format(time.RFC3339))
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d, status=%s", result.ID, result.Status)

	// 5. Пост-коммитные эффекты: сброс кэша и побочные эффекты.
	// Их неуспех не влияет на результат операции.
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, req.MentorID)
	}
	uc.dispatcher.BookingCreated(ctx, result)

	return toResponse(result), nil
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                 b.ID,
		MentorID:           b.MentorID,
		MenteeID:           b.MenteeID,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		RequesterTimezone:  b.RequesterTimezone,
		Status:             string(b.Status),
		CalendarSyncStatus: string(b.CalendarSyncStatus),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}
