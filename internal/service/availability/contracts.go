package availability

import (
	"context"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория конфигурации доступности
type AvailabilityRepository interface {
	GetByMentorID(ctx context.Context, mentorID int64) (*domain.MentorAvailability, error)
	Replace(ctx context.Context, cfg *domain.MentorAvailability) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
