package get_availability

import (
	"fmt"
	"time"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.MentorID <= 0 {
		return fmt.Errorf("%w: mentorID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	days := int(req.EndDate.Sub(req.StartDate).Hours()/24) + 1
	if days > domain.MaxQueryRangeDays {
		return fmt.Errorf("%w: requested %d days, limit is %d", ErrRangeTooWide, days, domain.MaxQueryRangeDays)
	}

	return nil
}

// validateConfiguration проверяет, что конфигурация ментора пригодна для
// генерации слотов. Нарушение — фатальная ошибка конфигурации для всего
// запроса, не ретраится.
func validateConfiguration(cfg *domain.MentorAvailability) (*time.Location, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: unresolvable timezone %q", ErrInvalidConfiguration, cfg.Timezone)
	}

	if cfg.SlotDurationMinutes < domain.MinSlotDurationMinutes || cfg.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return nil, fmt.Errorf("%w: slot duration %d minutes out of range", ErrInvalidConfiguration, cfg.SlotDurationMinutes)
	}

	return loc, nil
}
