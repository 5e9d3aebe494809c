package domain

// Policy defaults
const (
	// DefaultLeadTimeMinutes минимальный интервал между "сейчас" и началом
	// бронируемого слота — бронирования в последний момент запрещены
	DefaultLeadTimeMinutes = 120

	// DefaultBookingHorizonDays максимальная глубина бронирования в будущее
	DefaultBookingHorizonDays = 60

	// DefaultQueryRangeDays длина диапазона запроса доступности по умолчанию
	DefaultQueryRangeDays = 7

	// MaxQueryRangeDays предельная длина диапазона запроса доступности
	MaxQueryRangeDays = 60
)

// Business validation constants
const (
	MinSlotDurationMinutes = 15
	MaxSlotDurationMinutes = 240 // 4 hours

	MaxCancellationReasonLength = 500
	MaxOverrideReasonLength     = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, при которых бронирование занимает слот.
// Используются в запросах пересечения интервалов.
var ActiveStatuses = []BookingStatus{
	StatusPendingApproval,
	StatusConfirmed,
}
