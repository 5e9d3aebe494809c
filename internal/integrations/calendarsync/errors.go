package calendarsync

import "errors"

var (
	// ErrNotConnected возвращается, когда синхронизация календаря выключена
	// конфигурацией или у ментора не подключен календарь
	ErrNotConnected = errors.New("calendarsync client: calendar not connected")

	// ErrSyncFailed возвращается при неуспешной попытке синхронизации.
	// Ошибка никогда не фатальна для основной операции: вызывающая сторона
	// фиксирует статус failed и полагается на фоновую досинхронизацию.
	ErrSyncFailed = errors.New("calendarsync client: sync failed")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("calendarsync client: internal error")
)
