package availability

import "errors"

var (
	// ErrConfigNotFound возвращается, когда у ментора нет конфигурации доступности
	ErrConfigNotFound = errors.New("availability config not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidTimezone возвращается при неизвестном IANA-идентификаторе таймзоны
	ErrInvalidTimezone = errors.New("invalid timezone identifier")

	// ErrInvalidSlotDuration возвращается при недопустимой длительности слота
	ErrInvalidSlotDuration = errors.New("invalid slot duration")

	// ErrInvalidTimeRange возвращается при некорректном диапазоне доступности
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrDuplicateOverride возвращается при повторной дате недоступности
	ErrDuplicateOverride = errors.New("duplicate override date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
