package models

import (
	"errors"
	"time"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	"github.com/v-gridnev/MH-BookingService/pkg/types"
)

var (
	// ErrInvalidWeekday возвращается при неизвестном дне недели
	ErrInvalidWeekday = errors.New("invalid weekday name")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")
)

// Request модели

// TimeRangePayload диапазон доступности внутри дня, настенное время ментора
type TimeRangePayload struct {
	Start string `json:"start"` // "09:00"
	End   string `json:"end"`   // "17:00", допускается "24:00"
}

// OverridePayload дата недоступности
type OverridePayload struct {
	Date   string  `json:"date"` // "2026-01-15"
	Reason *string `json:"reason,omitempty"`
}

// ReplaceConfigRequest запрос на полную замену конфигурации доступности.
// Частичных обновлений нет: присланное расписание замещает текущее целиком.
type ReplaceConfigRequest struct {
	MentorID            int64                         `json:"mentorId"`
	UserID              int64                         `json:"userId"`
	Timezone            string                        `json:"timezone"`
	SlotDurationMinutes int                           `json:"slotDurationMinutes"`
	AutoApprove         bool                          `json:"autoApprove"`
	Weekly              map[string][]TimeRangePayload `json:"weekly"`
	Overrides           []OverridePayload             `json:"overrides,omitempty"`
}

// ToDomainAvailability конвертирует request в domain модель
func (r *ReplaceConfigRequest) ToDomainAvailability() (*domain.MentorAvailability, error) {
	weekly := make(map[time.Weekday][]domain.TimeRange, len(r.Weekly))
	for name, ranges := range r.Weekly {
		day, err := weekdayFromName(name)
		if err != nil {
			return nil, err
		}
		converted := make([]domain.TimeRange, 0, len(ranges))
		for _, rng := range ranges {
			converted = append(converted, domain.TimeRange{
				Start: types.TimeString(rng.Start),
				End:   types.TimeString(rng.End),
			})
		}
		weekly[day] = converted
	}

	overrides := make([]domain.DateOverride, 0, len(r.Overrides))
	for _, ov := range r.Overrides {
		date, err := time.ParseInLocation(domain.DateFormat, ov.Date, time.UTC)
		if err != nil {
			return nil, ErrInvalidDate
		}
		overrides = append(overrides, domain.DateOverride{
			Date:   date,
			Reason: ov.Reason,
		})
	}

	return &domain.MentorAvailability{
		MentorID:            r.MentorID,
		Timezone:            r.Timezone,
		SlotDurationMinutes: r.SlotDurationMinutes,
		AutoApprove:         r.AutoApprove,
		Weekly:              weekly,
		Overrides:           overrides,
	}, nil
}

// Response модели

// ConfigResponse ответ с конфигурацией доступности
type ConfigResponse struct {
	MentorID            int64                         `json:"mentorId"`
	Timezone            string                        `json:"timezone"`
	SlotDurationMinutes int                           `json:"slotDurationMinutes"`
	AutoApprove         bool                          `json:"autoApprove"`
	Weekly              map[string][]TimeRangePayload `json:"weekly"`
	Overrides           []OverridePayload             `json:"overrides"`
	CreatedAt           time.Time                     `json:"createdAt"`
	UpdatedAt           time.Time                     `json:"updatedAt"`
}

// FromDomainAvailability конвертирует domain модель в DTO
func FromDomainAvailability(cfg *domain.MentorAvailability) *ConfigResponse {
	if cfg == nil {
		return nil
	}

	weekly := make(map[string][]TimeRangePayload, len(cfg.Weekly))
	for day, ranges := range cfg.Weekly {
		converted := make([]TimeRangePayload, 0, len(ranges))
		for _, rng := range ranges {
			converted = append(converted, TimeRangePayload{
				Start: rng.Start.String(),
				End:   rng.End.String(),
			})
		}
		weekly[weekdayName(day)] = converted
	}

	overrides := make([]OverridePayload, 0, len(cfg.Overrides))
	for _, ov := range cfg.Overrides {
		overrides = append(overrides, OverridePayload{
			Date:   ov.Date.Format(domain.DateFormat),
			Reason: ov.Reason,
		})
	}

	return &ConfigResponse{
		MentorID:            cfg.MentorID,
		Timezone:            cfg.Timezone,
		SlotDurationMinutes: cfg.SlotDurationMinutes,
		AutoApprove:         cfg.AutoApprove,
		Weekly:              weekly,
		Overrides:           overrides,
		CreatedAt:           cfg.CreatedAt,
		UpdatedAt:           cfg.UpdatedAt,
	}
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

func weekdayFromName(name string) (time.Weekday, error) {
	day, ok := weekdayNames[name]
	if !ok {
		return 0, ErrInvalidWeekday
	}
	return day, nil
}

func weekdayName(day time.Weekday) string {
	for name, d := range weekdayNames {
		if d == day {
			return name
		}
	}
	return ""
}
