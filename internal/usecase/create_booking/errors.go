package create_booking

import "errors"

var (
	// ErrMentorNotConfigured возвращается, когда у ментора нет конфигурации доступности
	ErrMentorNotConfigured = errors.New("create_booking: mentor has no availability configuration")

	// ErrMenteeNotFound возвращается, когда профиль менти не найден
	ErrMenteeNotFound = errors.New("create_booking: mentee profile not found")

	// ErrInvalidConfiguration возвращается при сломанной конфигурации ментора
	ErrInvalidConfiguration = errors.New("create_booking: invalid mentor configuration")

	// ErrSlotTaken возвращается, когда слот занят другим активным бронированием.
	// Ожидаемая и частая ошибка под нагрузкой: клиент перечитывает доступность
	// и повторяет запрос.
	ErrSlotTaken = errors.New("create_booking: slot is already taken")

	// ErrSlotNotBookable возвращается, когда запрошенный интервал не лежит
	// на сетке доступности ментора (оверрайд даты, день без расписания,
	// интервал мимо сетки слотов)
	ErrSlotNotBookable = errors.New("create_booking: slot is not on the mentor's availability grid")

	// ErrTooLateToBook возвращается при нарушении минимального notice
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrTooFarInFuture возвращается, когда слот дальше горизонта бронирования
	ErrTooFarInFuture = errors.New("create_booking: slot is beyond the booking horizon")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
