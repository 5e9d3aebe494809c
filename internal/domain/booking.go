package domain

import "time"

// BookingStatus represents the status of a mentoring session booking
type BookingStatus string

const (
	StatusPendingApproval BookingStatus = "pending_approval"
	StatusConfirmed       BookingStatus = "confirmed"
	StatusCancelled       BookingStatus = "cancelled"
)

// CalendarSyncStatus represents the state of external calendar synchronization
type CalendarSyncStatus string

const (
	SyncNotConnected CalendarSyncStatus = "not_connected"
	SyncSynced       CalendarSyncStatus = "synced"
	SyncFailed       CalendarSyncStatus = "failed"
)

// CancelActor identifies which party cancelled a booking
type CancelActor string

const (
	CancelledByMentor CancelActor = "mentor"
	CancelledByMentee CancelActor = "mentee"
)

// Booking represents a mentoring session booking.
// StartTime and EndTime are absolute UTC instants; RequesterTimezone is kept
// for display purposes only and never participates in temporal arithmetic.
type Booking struct {
	ID                 int64
	MentorID           int64
	MenteeID           int64
	StartTime          time.Time
	EndTime            time.Time
	RequesterTimezone  string
	Status             BookingStatus
	CancellationReason *string
	CancelledBy        *CancelActor
	CalendarSyncStatus CalendarSyncStatus
	CalendarEventID    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its slot.
// Active bookings participate in the no-overlap invariant.
func (b *Booking) IsActive() bool {
	return b.Status == StatusPendingApproval || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPendingApproval || b.Status == StatusConfirmed
}

// Overlaps reports whether the booking overlaps the half-open interval [start, end).
// Touching boundaries do not count as overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// MentorBookingsFilter фильтр для выборки бронирований ментора
type MentorBookingsFilter struct {
	MentorID        int64      // Обязательный параметр
	StartTime       *time.Time // Начало периода (опционально)
	EndTime         *time.Time // Конец периода (опционально)
	Status          *BookingStatus
	IncludeInactive bool // Включать ли отменённые бронирования
}
