package models

import (
	"errors"
	"time"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// DeclineBookingRequest запрос на отклонение бронирования ментором
type DeclineBookingRequest struct {
	MentorID int64 `json:"mentorId"`
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64   `json:"userId"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// GetMenteeBookingsRequest запрос на получение бронирований менти
type GetMenteeBookingsRequest struct {
	MenteeID int64   `json:"menteeId"`
	Status   *string `json:"status,omitempty"`
}

// GetMentorBookingsRequest запрос на получение бронирований ментора
type GetMentorBookingsRequest struct {
	MentorID        int64      `json:"mentorId"`
	UserID          int64      `json:"userId"`
	StartTime       *time.Time `json:"startTime,omitempty"`       // Начало периода (опционально)
	EndTime         *time.Time `json:"endTime,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetMentorBookingsRequest) ToDomainFilter() (domain.MentorBookingsFilter, error) {
	filter := domain.MentorBookingsFilter{
		MentorID:        r.MentorID,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                 int64  `json:"id"`
	MentorID           int64  `json:"mentorId"`
	MenteeID           int64  `json:"menteeId"`
	StartTime          string `json:"startTime"` // ISO 8601, UTC
	EndTime            string `json:"endTime"`   // ISO 8601, UTC
	RequesterTimezone  string `json:"requesterTimezone"`
	Status             string `json:"status"`
	CalendarSyncStatus string `json:"calendarSyncStatus"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledBy        *string `json:"cancelledBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		MentorID:           b.MentorID,
		MenteeID:           b.MenteeID,
		StartTime:          b.StartTime.UTC().Format(time.RFC3339),
		EndTime:            b.EndTime.UTC().Format(time.RFC3339),
		RequesterTimezone:  b.RequesterTimezone,
		Status:             string(b.Status),
		CalendarSyncStatus: string(b.CalendarSyncStatus),
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledBy != nil {
		actor := string(*b.CancelledBy)
		resp.CancelledBy = &actor
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusPendingApproval,
		domain.StatusConfirmed,
		domain.StatusCancelled,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
