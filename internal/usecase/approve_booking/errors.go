package approve_booking

import "errors"

var (
	// ErrBookingNotFound - бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")
	// ErrAccessDenied - подтверждать запрос может только ментор
	ErrAccessDenied = errors.New("access denied")
	// ErrInvalidStatus - бронирование не находится в статусе ожидания
	ErrInvalidStatus = errors.New("booking is not pending approval")
	// ErrApproveConflict - слот уже занят подтверждённым бронированием,
	// проигравший запрос удалён
	ErrApproveConflict = errors.New("slot already taken by a confirmed booking")
	// ErrInternal - внутренняя ошибка
	ErrInternal = errors.New("internal error")
)
