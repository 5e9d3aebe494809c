package get_availability

import (
	"sort"
	"time"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	"github.com/v-gridnev/MH-BookingService/pkg/localtime"
)

// generateRangeSlots разворачивает один диапазон локального времени в
// последовательность слотов фиксированной длительности.
//
// Границы диапазона конвертируются в UTC через базу зон, дальше шаг идет
// по UTC — так день перевода часов не порождает лишних и не теряет слоты.
// Слот попадает в результат, только если целиком помещается в диапазон:
// короткий хвост в конце не эмитится. Диапазон короче одной длительности
// дает ноль слотов.
func generateRangeSlots(date time.Time, r domain.TimeRange, loc *time.Location, slotDuration time.Duration) []domain.AvailableSlot {
	year, month, day := date.Date()

	startUTC := localtime.ResolveWallClock(year, month, day, r.Start, loc)
	endUTC := localtime.ResolveWallClock(year, month, day, r.End, loc)

	slots := make([]domain.AvailableSlot, 0)
	for cur := startUTC; !cur.Add(slotDuration).After(endUTC); cur = cur.Add(slotDuration) {
		slots = append(slots, domain.AvailableSlot{
			Start:       cur,
			End:         cur.Add(slotDuration),
			DisplayTime: localtime.FormatDisplay(cur, loc),
		})
	}

	return slots
}

// resolveDay вычисляет финальный набор доступных слотов на одну дату:
//  1. дата с оверрайдом — пустой результат независимо от недельного расписания;
//  2. нет диапазонов на день недели — пустой результат;
//  3. генерация слотов по всем диапазонам дня;
//  4. фильтр политики: не раньше now+leadTime и не позже now+horizon;
//  5. выброс слотов, пересекающих активные бронирования;
//  6. сортировка по возрастанию начала.
func resolveDay(
	cfg *domain.MentorAvailability,
	loc *time.Location,
	date time.Time,
	now time.Time,
	policy Policy,
	bookings []*domain.Booking,
) []domain.AvailableSlot {
	if cfg.IsOverridden(date) {
		return []domain.AvailableSlot{}
	}

	ranges := cfg.RangesFor(date.Weekday())
	if len(ranges) == 0 {
		return []domain.AvailableSlot{}
	}

	slots := make([]domain.AvailableSlot, 0)
	for _, r := range ranges {
		slots = append(slots, generateRangeSlots(date, r, loc, cfg.SlotDuration())...)
	}

	slots = filterByPolicy(slots, now, policy)
	slots = dropBooked(slots, bookings)

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	return slots
}

// filterByPolicy выбрасывает слоты вне окна [now+leadTime, now+horizon]
func filterByPolicy(slots []domain.AvailableSlot, now time.Time, policy Policy) []domain.AvailableSlot {
	earliest := now.Add(policy.LeadTime)
	latest := now.Add(policy.Horizon)

	filtered := make([]domain.AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Start.Before(earliest) {
			continue
		}
		if slot.Start.After(latest) {
			continue
		}
		filtered = append(filtered, slot)
	}
	return filtered
}

// dropBooked выбрасывает слоты, пересекающие активные бронирования.
// Тест пересечения полуинтервалов: slot.start < booking.end AND slot.end > booking.start.
func dropBooked(slots []domain.AvailableSlot, bookings []*domain.Booking) []domain.AvailableSlot {
	filtered := make([]domain.AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		if slotIsFree(slot, bookings) {
			filtered = append(filtered, slot)
		}
	}
	return filtered
}

func slotIsFree(slot domain.AvailableSlot, bookings []*domain.Booking) bool {
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if slot.Overlaps(b.StartTime, b.EndTime) {
			return false
		}
	}
	return true
}
