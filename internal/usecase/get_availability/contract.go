package get_availability

import (
	"context"
	"time"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetActiveOverlapping получает активные бронирования ментора,
	// пересекающие полуинтервал [start, end)
	GetActiveOverlapping(ctx context.Context, mentorID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error)
}

// AvailabilityRepository интерфейс репозитория конфигурации доступности
type AvailabilityRepository interface {
	GetByMentorID(ctx context.Context, mentorID int64) (*domain.MentorAvailability, error)
}

// Cache кэш ответов доступности (advisory, опционален)
type Cache interface {
	Get(ctx context.Context, mentorID int64, startDate, endDate string) ([]byte, bool)
	Set(ctx context.Context, mentorID int64, startDate, endDate string, payload []byte)
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

// Policy политика бронирования: минимальный notice и горизонт
type Policy struct {
	LeadTime time.Duration // Минимум между "сейчас" и началом слота
	Horizon  time.Duration // Максимальная глубина бронирования в будущее
}

// DefaultPolicy политика с дефолтами из domain
func DefaultPolicy() Policy {
	return Policy{
		LeadTime: time.Duration(domain.DefaultLeadTimeMinutes) * time.Minute,
		Horizon:  time.Duration(domain.DefaultBookingHorizonDays) * 24 * time.Hour,
	}
}
