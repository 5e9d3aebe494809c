package create_booking

import "time"

// Request модель запроса на создание бронирования.
// StartTime и EndTime — абсолютные UTC-моменты, выбранные из ответа
// запроса доступности. Timezone менти хранится только для отображения.
type Request struct {
	MentorID  int64
	MenteeID  int64
	StartTime time.Time
	EndTime   time.Time
	Timezone  string // Таймзона менти; пустая — берется из профиля
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID                 int64
	MentorID           int64
	MenteeID           int64
	StartTime          time.Time
	EndTime            time.Time
	RequesterTimezone  string
	Status             string
	CalendarSyncStatus string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
