package dispatch

import (
	"context"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	"github.com/v-gridnev/MH-BookingService/internal/integrations/calendarsync"
	"github.com/v-gridnev/MH-BookingService/internal/integrations/notifyservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	UpdateCalendarSync(ctx context.Context, id int64, status domain.CalendarSyncStatus, eventID *string) error
	ListFailedCalendarSync(ctx context.Context, limit uint64) ([]*domain.Booking, error)
}

// CalendarSyncClient интерфейс клиента синхронизации календаря
type CalendarSyncClient interface {
	CreateEvent(ctx context.Context, req *calendarsync.CreateEventRequest) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// NotifyServiceClient интерфейс клиента отправки уведомлений
type NotifyServiceClient interface {
	Send(ctx context.Context, n *notifyservice.Notification) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
