package get_availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	availabilityRepo "github.com/v-gridnev/MH-BookingService/internal/infra/storage/availability"
)

// UseCase use case получения доступных слотов за диапазон дат
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	cache            Cache // nil, если кэш выключен
	policy           Policy
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	cache Cache,
	policy Policy,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		cache:            cache,
		policy:           policy,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Чтение советующее: результат не гарантирует успешность последующего
// создания брони, каждая мутация перепроверяет занятость на живых данных.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: mentor=%d, range=%s..%s",
		req.MentorID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	startKey := req.StartDate.Format(domain.DateFormat)
	endKey := req.EndDate.Format(domain.DateFormat)

	// 2. Кэш (если включен)
	if uc.cache != nil {
		if payload, ok := uc.cache.Get(ctx, req.MentorID, startKey, endKey); ok {
			var cached Response
			if err := json.Unmarshal(payload, &cached); err == nil {
				uc.logger.Info("GetAvailability: cache hit for mentor=%d", req.MentorID)
				return &cached, nil
			}
			uc.logger.Warn("GetAvailability: cache payload corrupted for mentor=%d, ignoring", req.MentorID)
		}
	}

	// 3. Конфигурация доступности ментора
	cfg, err := uc.availabilityRepo.GetByMentorID(ctx, req.MentorID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrConfigNotFound) {
			uc.logger.Warn("GetAvailability: mentor=%d has no availability config", req.MentorID)
			return nil, ErrMentorNotConfigured
		}
		uc.logger.Error("GetAvailability: failed to get config for mentor=%d: %v", req.MentorID, err)
		return nil, fmt.Errorf("%w: failed to get availability config: %v", ErrInternal, err)
	}

	loc, err := validateConfiguration(cfg)
	if err != nil {
		uc.logger.Error("GetAvailability: mentor=%d configuration is broken: %v", req.MentorID, err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 4. Все активные бронирования на окно запроса одним запросом.
	// Окно — локальные сутки менторской зоны с первой до последней даты.
	windowStart, windowEnd := queryWindow(req.StartDate, req.EndDate, loc)
	bookings, err := uc.bookingRepo.GetActiveOverlapping(ctx, req.MentorID, windowStart, windowEnd, nil)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings for mentor=%d: %v", req.MentorID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Резолвим каждую дату диапазона
	days := make(map[string][]Slot)
	for date := req.StartDate; !date.After(req.EndDate); date = date.AddDate(0, 0, 1) {
		resolved := resolveDay(cfg, loc, date, now, uc.policy, bookings)

		slots := make([]Slot, len(resolved))
		for i, s := range resolved {
			slots[i] = Slot{Start: s.Start, End: s.End, DisplayTime: s.DisplayTime}
		}
		days[date.Format(domain.DateFormat)] = slots
	}

	resp := &Response{MentorID: req.MentorID, Days: days}

	// 6. Кладем в кэш
	if uc.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			uc.cache.Set(ctx, req.MentorID, startKey, endKey, payload)
		}
	}

	uc.logger.Info("GetAvailability: resolved %d days for mentor=%d", len(days), req.MentorID)
	return resp, nil
}

// queryWindow возвращает UTC-окно, покрывающее локальные сутки менторской
// зоны от startDate до endDate включительно
func queryWindow(startDate, endDate time.Time, loc *time.Location) (time.Time, time.Time) {
	sy, sm, sd := startDate.Date()
	ey, em, ed := endDate.Date()

	start := time.Date(sy, sm, sd, 0, 0, 0, 0, loc).UTC()
	end := time.Date(ey, em, ed, 0, 0, 0, 0, loc).AddDate(0, 0, 1).UTC()
	return start, end
}
