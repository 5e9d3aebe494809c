package domain

import (
	"time"

	"github.com/v-gridnev/MH-BookingService/pkg/types"
)

// TimeRange один диапазон доступности внутри дня, локальное настенное время ментора.
// Инвариант: Start строго раньше End.
type TimeRange struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// DateOverride дата, на которую ментор недоступен независимо от недельного
// расписания. На одну дату допускается не более одной записи.
type DateOverride struct {
	Date   time.Time // Календарная дата без времени (UTC полночь)
	Reason *string
}

// MentorAvailability declarative weekly availability configuration for a mentor.
// Weekly maps weekday to an ordered list of local-time ranges; all ranges are
// interpreted in Timezone. SlotDurationMinutes is fixed per mentor.
type MentorAvailability struct {
	MentorID            int64
	Timezone            string // IANA-идентификатор, например "Europe/Moscow"
	SlotDurationMinutes int
	AutoApprove         bool // true — создание брони сразу подтверждает её
	Weekly              map[time.Weekday][]TimeRange
	Overrides           []DateOverride

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RangesFor возвращает диапазоны доступности на день недели
func (a *MentorAvailability) RangesFor(day time.Weekday) []TimeRange {
	return a.Weekly[day]
}

// IsOverridden возвращает true, если дата закрыта оверрайдом
func (a *MentorAvailability) IsOverridden(date time.Time) bool {
	y, m, d := date.Date()
	for _, o := range a.Overrides {
		oy, om, od := o.Date.Date()
		if y == oy && m == om && d == od {
			return true
		}
	}
	return false
}

// Location резолвит таймзону ментора через базу зон
func (a *MentorAvailability) Location() (*time.Location, error) {
	return time.LoadLocation(a.Timezone)
}

// SlotDuration возвращает длительность слота как time.Duration
func (a *MentorAvailability) SlotDuration() time.Duration {
	return time.Duration(a.SlotDurationMinutes) * time.Minute
}
