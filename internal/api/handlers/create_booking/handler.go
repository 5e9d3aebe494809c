package create_booking

import (
	"errors"
	"net/http"

	"github.com/v-gridnev/MH-BookingService/internal/api/handlers"
	"github.com/v-gridnev/MH-BookingService/internal/api/middleware"
	createBooking "github.com/v-gridnev/MH-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidTime         = "некорректный формат времени, ожидается RFC 3339"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgSlotTaken           = "выбранный слот уже занят"
	msgSlotNotBookable     = "выбранный интервал не совпадает с сеткой слотов ментора"
	msgMentorNotConfigured = "у ментора нет расписания доступности"
	msgMenteeNotFound      = "профиль менти не найден"
	msgBrokenConfiguration = "расписание ментора настроено некорректно"
	msgTooLateToBook       = "слишком поздно для бронирования этого слота"
	msgTooFarInFuture      = "слот дальше горизонта бронирования"
	msgInvalidInput        = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Менти - аутентифицированный пользователь
	menteeID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(menteeID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request times: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: mentee_id=%d, mentor_id=%d", menteeID, req.MentorID)
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)

		case errors.Is(err, createBooking.ErrSlotNotBookable):
			h.logger.Warn("POST /bookings - Slot not on grid: mentee_id=%d, mentor_id=%d", menteeID, req.MentorID)
			handlers.RespondBadRequest(w, msgSlotNotBookable)

		case errors.Is(err, createBooking.ErrMentorNotConfigured):
			h.logger.Warn("POST /bookings - Mentor not configured: mentor_id=%d", req.MentorID)
			handlers.RespondNotFound(w, msgMentorNotConfigured)

		case errors.Is(err, createBooking.ErrMenteeNotFound):
			h.logger.Warn("POST /bookings - Mentee not found: mentee_id=%d", menteeID)
			handlers.RespondNotFound(w, msgMenteeNotFound)

		case errors.Is(err, createBooking.ErrInvalidConfiguration):
			h.logger.Warn("POST /bookings - Broken configuration: mentor_id=%d, error=%v", req.MentorID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgBrokenConfiguration)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: mentee_id=%d, mentor_id=%d", menteeID, req.MentorID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrTooFarInFuture):
			h.logger.Warn("POST /bookings - Beyond booking horizon: mentee_id=%d, mentor_id=%d", menteeID, req.MentorID)
			handlers.RespondBadRequest(w, msgTooFarInFuture)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: mentee_id=%d, error=%v", menteeID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: mentee_id=%d, mentor_id=%d, error=%v",
				menteeID, req.MentorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, mentee_id=%d, mentor_id=%d, status=%s",
		result.ID, menteeID, req.MentorID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
