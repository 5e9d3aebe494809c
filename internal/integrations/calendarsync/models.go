package calendarsync

import "time"

// CreateEventRequest запрос на создание события в календаре ментора
type CreateEventRequest struct {
	MentorID    int64     `json:"mentor_id"`
	MenteeID    int64     `json:"mentee_id"`
	BookingID   int64     `json:"booking_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Description string    `json:"description,omitempty"`
}

// CreateEventResponse ответ с идентификатором созданного события
type CreateEventResponse struct {
	EventID string `json:"event_id"`
}
