package get_availability_config

import (
	"context"

	"github.com/v-gridnev/MH-BookingService/internal/service/availability/models"
)

type AvailabilityService interface {
	GetConfig(ctx context.Context, mentorID int64, userID int64) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
