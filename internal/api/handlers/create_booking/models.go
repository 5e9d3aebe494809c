package create_booking

import (
	"time"

	createBooking "github.com/v-gridnev/MH-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model.
// Времена - абсолютные моменты RFC 3339, скопированные из ответа доступности.
type CreateBookingRequest struct {
	MentorID  int64  `json:"mentorId"`
	StartTime string `json:"startTime"` // RFC 3339
	EndTime   string `json:"endTime"`   // RFC 3339
	Timezone  string `json:"timezone,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(menteeID int64) (*createBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		MentorID:  r.MentorID,
		MenteeID:  menteeID,
		StartTime: start,
		EndTime:   end,
		Timezone:  r.Timezone,
	}, nil
}

// BookingResponse HTTP модель созданного бронирования
type BookingResponse struct {
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

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                 resp.ID,
		MentorID:           resp.MentorID,
		MenteeID:           resp.MenteeID,
		StartTime:          resp.StartTime,
		EndTime:            resp.EndTime,
		RequesterTimezone:  resp.RequesterTimezone,
		Status:             resp.Status,
		CalendarSyncStatus: resp.CalendarSyncStatus,
		CreatedAt:          resp.CreatedAt,
		UpdatedAt:          resp.UpdatedAt,
	}
}
