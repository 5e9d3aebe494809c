package create_booking

import (
	"fmt"
	"time"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	"github.com/v-gridnev/MH-BookingService/pkg/localtime"
)

// validateRequest валидирует входные данные до обращения к хранилищу
func validateRequest(req *Request) error {
	if req.MentorID <= 0 {
		return fmt.Errorf("%w: mentorID must be positive", ErrInvalidInput)
	}

	if req.MenteeID <= 0 {
		return fmt.Errorf("%w: menteeID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if !req.StartTime.Before(req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			return fmt.Errorf("%w: unresolvable timezone %q", ErrInvalidInput, req.Timezone)
		}
	}

	return nil
}

// validatePolicy проверяет lead time и горизонт бронирования
func validatePolicy(start, now time.Time, leadTime, horizon time.Duration) error {
	if start.Before(now.Add(leadTime)) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, int(leadTime.Minutes()))
	}

	if start.After(now.Add(horizon)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrTooFarInFuture, int(horizon.Hours()/24))
	}

	return nil
}

// validateDuration проверяет, что длина интервала равна длительности слота ментора
func validateDuration(start, end time.Time, cfg *domain.MentorAvailability) error {
	if end.Sub(start) != cfg.SlotDuration() {
		return fmt.Errorf("%w: interval length must equal the mentor's slot duration (%d minutes)",
			ErrInvalidInput, cfg.SlotDurationMinutes)
	}
	return nil
}

// validateOnGrid проверяет, что интервал [start, end) совпадает с одним из
// слотов, которые генерирует расписание ментора на эту дату.
// Дата берется в зоне ментора: для менти в другой зоне тот же момент может
// относиться к другому календарному дню.
func validateOnGrid(start, end time.Time, cfg *domain.MentorAvailability, loc *time.Location) error {
	local := start.In(loc)
	year, month, day := local.Date()
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	if cfg.IsOverridden(date) {
		return fmt.Errorf("%w: mentor is unavailable on %s", ErrSlotNotBookable, date.Format(domain.DateFormat))
	}

	for _, r := range cfg.RangesFor(local.Weekday()) {
		if onRangeGrid(start, end, date, r, loc, cfg.SlotDuration()) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s does not match any configured slot", ErrSlotNotBookable, start.Format(time.RFC3339))
}

func onRangeGrid(start, end, date time.Time, r domain.TimeRange, loc *time.Location, slotDuration time.Duration) bool {
	year, month, day := date.Date()
	rangeStart := localtime.ResolveWallClock(year, month, day, r.Start, loc)
	rangeEnd := localtime.ResolveWallClock(year, month, day, r.End, loc)

	for cur := rangeStart; !cur.Add(slotDuration).After(rangeEnd); cur = cur.Add(slotDuration) {
		if cur.Equal(start) && cur.Add(slotDuration).Equal(end) {
			return true
		}
	}
	return false
}

// displayTimezone возвращает таймзону для отображения: из запроса,
// иначе из профиля, иначе UTC
func displayTimezone(requested, profileTZ string) string {
	if requested != "" {
		return requested
	}
	if profileTZ != "" {
		if _, err := time.LoadLocation(profileTZ); err == nil {
			return profileTZ
		}
	}
	return "UTC"
}
