package notifyservice

import "errors"

var (
	// ErrDispatchFailed возвращается при неуспешной отправке уведомления.
	// Уведомления fire-and-forget: ошибка логируется и не пробрасывается
	// в основную операцию.
	ErrDispatchFailed = errors.New("notifyservice client: dispatch failed")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifyservice client: internal error")
)
