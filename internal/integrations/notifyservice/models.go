package notifyservice

// Kind тип уведомления
type Kind string

const (
	KindBookingRequested Kind = "booking_requested"
	KindBookingConfirmed Kind = "booking_confirmed"
	KindBookingDeclined  Kind = "booking_declined"
	KindBookingCancelled Kind = "booking_cancelled"

	// KindRebookPrompt отправляется вместо обычной отмены, когда причина
	// отмены похожа на перенос: текст подталкивает к повторному бронированию
	KindRebookPrompt Kind = "booking_rebook_prompt"
)

// Notification уведомление получателю.
// Канал доставки (личное сообщение, email) выбирает сам NotifyService.
type Notification struct {
	RecipientID int64             `json:"recipient_id"`
	Kind        Kind              `json:"kind"`
	BookingID   int64             `json:"booking_id"`
	Params      map[string]string `json:"params,omitempty"`
}
