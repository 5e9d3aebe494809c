package get_mentee_bookings

import (
	"context"

	"github.com/v-gridnev/MH-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetMenteeBookings(ctx context.Context, req *models.GetMenteeBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
