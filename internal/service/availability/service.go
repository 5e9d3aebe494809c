package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	availabilityRepo "github.com/v-gridnev/MH-BookingService/internal/infra/storage/availability"
	"github.com/v-gridnev/MH-BookingService/internal/service/availability/models"
)

// Service сервис для работы с конфигурацией доступности менторов
type Service struct {
	availabilityRepo AvailabilityRepository
	txManager        TransactionManager
	cache            CacheInvalidator // nil, если кэш выключен
	logger           Logger
}

// NewService создает новый экземпляр сервиса конфигурации доступности
func NewService(
	availabilityRepo AvailabilityRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		txManager:        txManager,
		cache:            cache,
		logger:           logger,
	}
}

// GetConfig получает конфигурацию доступности ментора
// Доступно только самому ментору: публичная поверхность - резолвнутые слоты
func (s *Service) GetConfig(ctx context.Context, mentorID int64, userID int64) (*models.ConfigResponse, error) {
	s.logger.Info("GetConfig: fetching config for mentor=%d by user=%d", mentorID, userID)

	if userID != mentorID {
		s.logger.Warn("GetConfig: access denied for user=%d to mentor=%d config", userID, mentorID)
		return nil, ErrAccessDenied
	}

	cfg, err := s.availabilityRepo.GetByMentorID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrConfigNotFound) {
			s.logger.Warn("GetConfig: config for mentor=%d not found", mentorID)
			return nil, ErrConfigNotFound
		}
		s.logger.Error("GetConfig: repository error for mentor=%d: %v", mentorID, err)
		return nil, fmt.Errorf("%w: GetConfig - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetConfig: successfully fetched config for mentor=%d", mentorID)
	return models.FromDomainAvailability(cfg), nil
}

// Replace полностью замещает конфигурацию доступности ментора.
// Уже существующие бронирования не трогаются: новое расписание влияет
// только на слоты, предлагаемые после замены.
func (s *Service) Replace(ctx context.Context, req *models.ReplaceConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Replace: replacing config for mentor=%d by user=%d", req.MentorID, req.UserID)

	if req.UserID != req.MentorID {
		s.logger.Warn("Replace: access denied for user=%d to mentor=%d config", req.UserID, req.MentorID)
		return nil, ErrAccessDenied
	}

	cfg, err := req.ToDomainAvailability()
	if err != nil {
		s.logger.Warn("Replace: malformed config for mentor=%d: %v", req.MentorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.validateConfig(cfg); err != nil {
		s.logger.Warn("Replace: validation failed for mentor=%d: %v", req.MentorID, err)
		return nil, err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.availabilityRepo.Replace(txCtx, cfg); err != nil {
			return fmt.Errorf("%w: Replace - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Replace: failed to store config for mentor=%d: %v", req.MentorID, err)
		return nil, err
	}

	s.logger.Info("Replace: successfully replaced config for mentor=%d", req.MentorID)

	// Свежезаписанная конфигурация должна быть видна немедленно
	if s.cache != nil {
		s.cache.Invalidate(ctx, req.MentorID)
	}

	stored, err := s.availabilityRepo.GetByMentorID(ctx, req.MentorID)
	if err != nil {
		s.logger.Error("Replace: failed to re-read config for mentor=%d: %v", req.MentorID, err)
		return nil, fmt.Errorf("%w: Replace - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAvailability(stored), nil
}

// validateConfig проверяет конфигурацию целиком до записи
func (s *Service) validateConfig(cfg *domain.MentorAvailability) error {
	if cfg.MentorID <= 0 {
		return fmt.Errorf("%w: mentor id must be positive", ErrInvalidInput)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil || cfg.Timezone == "" || cfg.Timezone == "Local" {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, cfg.Timezone)
	}

	if cfg.SlotDurationMinutes < domain.MinSlotDurationMinutes ||
		cfg.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: %d minutes, allowed %d..%d", ErrInvalidSlotDuration,
			cfg.SlotDurationMinutes, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	for day, ranges := range cfg.Weekly {
		if err := validateDayRanges(ranges); err != nil {
			return fmt.Errorf("%w (%s)", err, day)
		}
	}

	seen := make(map[string]struct{}, len(cfg.Overrides))
	for _, ov := range cfg.Overrides {
		key := ov.Date.Format(domain.DateFormat)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateOverride, key)
		}
		seen[key] = struct{}{}
	}

	return nil
}

// validateDayRanges проверяет диапазоны одного дня: формат, порядок границ
// и отсутствие пересечений между диапазонами
func validateDayRanges(ranges []domain.TimeRange) error {
	for _, rng := range ranges {
		if err := rng.Start.Validate(); err != nil {
			return fmt.Errorf("%w: start %q", ErrInvalidTimeRange, rng.Start)
		}
		if err := rng.End.Validate(); err != nil {
			return fmt.Errorf("%w: end %q", ErrInvalidTimeRange, rng.End)
		}
		if !rng.Start.IsBefore(rng.End) {
			return fmt.Errorf("%w: start %q is not before end %q", ErrInvalidTimeRange, rng.Start, rng.End)
		}
	}

	sorted := make([]domain.TimeRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.IsBefore(sorted[j].Start)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start.IsBefore(sorted[i-1].End) {
			return fmt.Errorf("%w: ranges %q-%q and %q-%q overlap", ErrInvalidTimeRange,
				sorted[i-1].Start, sorted[i-1].End, sorted[i].Start, sorted[i].End)
		}
	}

	return nil
}
