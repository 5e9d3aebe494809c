package approve_booking

import (
	"context"
	"time"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetActiveOverlapping(ctx context.Context, mentorID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, expected, next domain.BookingStatus) error
	Delete(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Dispatcher пост-коммитный диспетчер побочных эффектов
type Dispatcher interface {
	BookingApproved(ctx context.Context, booking *domain.Booking)
	BookingConflict(ctx context.Context)
}

// CacheInvalidator сброс кэша доступности ментора
type CacheInvalidator interface {
	Invalidate(ctx context.Context, mentorID int64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
