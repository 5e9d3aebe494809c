package get_availability

import "time"

// Request модель запроса доступных слотов за диапазон дат
type Request struct {
	MentorID  int64     // ID ментора
	StartDate time.Time // Первая дата диапазона (без времени)
	EndDate   time.Time // Последняя дата диапазона, включительно
}

// Response модель ответа: слоты по датам.
// Дата без слотов (оверрайд, всё занято, вне политики) отдается пустым
// списком, не ошибкой.
type Response struct {
	MentorID int64             `json:"mentorId"`
	Days     map[string][]Slot `json:"days"` // ключ — дата YYYY-MM-DD
}

// Slot модель доступного слота
type Slot struct {
	Start       time.Time `json:"start"`       // UTC
	End         time.Time `json:"end"`         // UTC
	DisplayTime string    `json:"displayTime"` // в зоне ментора, 12-часовой формат
}
