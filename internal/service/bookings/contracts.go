package bookings

import (
	"context"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByMenteeID(ctx context.Context, menteeID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByMentorWithFilter(ctx context.Context, filter domain.MentorBookingsFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason *string, actor domain.CancelActor) error
	Delete(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Dispatcher пост-коммитный диспетчер побочных эффектов
type Dispatcher interface {
	BookingDeclined(ctx context.Context, booking *domain.Booking)
	BookingCancelled(ctx context.Context, booking *domain.Booking)
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
