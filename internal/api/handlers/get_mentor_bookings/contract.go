package get_mentor_bookings

import (
	"context"

	"github.com/v-gridnev/MH-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetMentorBookings(ctx context.Context, req *models.GetMentorBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
