package domain

import "time"

// AvailableSlot a bookable time slot derived from a mentor's weekly availability.
// Ephemeral: computed on every availability query, never persisted.
type AvailableSlot struct {
	Start       time.Time // UTC
	End         time.Time // UTC
	DisplayTime string    // Начало слота в зоне ментора, 12-часовой формат
}

// Overlaps reports whether the slot overlaps the half-open interval [start, end)
func (s *AvailableSlot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && s.End.After(start)
}
