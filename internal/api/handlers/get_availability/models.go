package get_availability

import (
	"time"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	getAvailability "github.com/v-gridnev/MH-BookingService/internal/usecase/get_availability"
)

// SlotResponse HTTP модель доступного слота
type SlotResponse struct {
	Start       time.Time `json:"start"`       // UTC, RFC 3339
	End         time.Time `json:"end"`         // UTC, RFC 3339
	DisplayTime string    `json:"displayTime"` // настенное время ментора
}

// AvailabilityResponse HTTP модель ответа: слоты, сгруппированные по датам
type AvailabilityResponse struct {
	MentorID int64                     `json:"mentorId"`
	Days     map[string][]SlotResponse `json:"days"`
}

// ToUseCaseRequest строит запрос к use case из path и query параметров.
// Отсутствующие даты замещаются диапазоном по умолчанию от сегодня.
func ToUseCaseRequest(mentorID int64, startStr, endStr string, now time.Time) (*getAvailability.Request, error) {
	start := now.UTC().Truncate(24 * time.Hour)
	if startStr != "" {
		parsed, err := time.ParseInLocation(domain.DateFormat, startStr, time.UTC)
		if err != nil {
			return nil, err
		}
		start = parsed
	}

	end := start.AddDate(0, 0, domain.DefaultQueryRangeDays-1)
	if endStr != "" {
		parsed, err := time.ParseInLocation(domain.DateFormat, endStr, time.UTC)
		if err != nil {
			return nil, err
		}
		end = parsed
	}

	return &getAvailability.Request{
		MentorID:  mentorID,
		StartDate: start,
		EndDate:   end,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	days := make(map[string][]SlotResponse, len(resp.Days))
	for date, slots := range resp.Days {
		converted := make([]SlotResponse, 0, len(slots))
		for _, slot := range slots {
			converted = append(converted, SlotResponse{
				Start:       slot.Start,
				End:         slot.End,
				DisplayTime: slot.DisplayTime,
			})
		}
		days[date] = converted
	}

	return &AvailabilityResponse{
		MentorID: resp.MentorID,
		Days:     days,
	}
}
