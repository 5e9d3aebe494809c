package create_booking

import (
	"context"
	"time"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	"github.com/v-gridnev/MH-BookingService/internal/integrations/profileservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveOverlapping(ctx context.Context, mentorID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
}

// AvailabilityRepository интерфейс репозитория конфигурации доступности
type AvailabilityRepository interface {
	GetByMentorID(ctx context.Context, mentorID int64) (*domain.MentorAvailability, error)
}

// ProfileServiceClient интерфейс клиента ProfileService
type ProfileServiceClient interface {
	GetProfile(ctx context.Context, userID int64) (*profileservice.Profile, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Dispatcher пост-коммитный диспетчер побочных эффектов
// (синхронизация календаря, уведомления, метрики конфликтов)
type Dispatcher interface {
	BookingCreated(ctx context.Context, booking *domain.Booking)
	BookingConflict(ctx context.Context)
}

// CacheInvalidator сброс кэша доступности ментора
type CacheInvalidator interface {
	Invalidate(ctx context.Context, mentorID int64)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
