package approve_booking

import (
	"time"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
)

// Response результат подтверждения бронирования
type Response struct {
	ID                 int64     `json:"id"`
	MentorID           int64     `json:"mentorId"`
	MenteeID           int64     `json:"menteeId"`
	StartTime          time.Time `json:"startTime"`
	EndTime            time.Time `json:"endTime"`
	RequesterTimezone  string    `json:"requesterTimezone"`
	Status             string    `json:"status"`
	CalendarSyncStatus string    `json:"calendarSyncStatus"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                 b.ID,
		MentorID:           b.MentorID,
		MenteeID:           b.MenteeID,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		RequesterTimezone:  b.RequesterTimezone,
		Status:             string(b.Status),
		CalendarSyncStatus: string(b.CalendarSyncStatus),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}
