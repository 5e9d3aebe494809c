package profileservice

// Profile профиль пользователя из ProfileService.
// Движок бронирования читает отсюда только отображаемое имя и таймзону.
type Profile struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Timezone    string `json:"timezone"`
	IsMentor    bool   `json:"is_mentor"`
}

// ErrorResponse модель ошибки от ProfileService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
