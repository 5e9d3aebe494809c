package get_availability

import "errors"

var (
	// ErrMentorNotConfigured возвращается, когда у ментора нет конфигурации доступности
	ErrMentorNotConfigured = errors.New("get_availability: mentor has no availability configuration")

	// ErrInvalidConfiguration возвращается при сломанной конфигурации ментора
	// (нерезолвящаяся таймзона, некорректная длительность слота).
	// Фатальна для всего запроса, не ретраится.
	ErrInvalidConfiguration = errors.New("get_availability: invalid mentor configuration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrRangeTooWide возвращается, когда запрошенный диапазон дат превышает лимит
	ErrRangeTooWide = errors.New("get_availability: requested date range is too wide")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
