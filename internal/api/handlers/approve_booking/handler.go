package approve_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/v-gridnev/MH-BookingService/internal/api/handlers"
	"github.com/v-gridnev/MH-BookingService/internal/api/middleware"
	approveBooking "github.com/v-gridnev/MH-BookingService/internal/usecase/approve_booking"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "доступ запрещен"
	msgNotPending       = "бронирование не ожидает подтверждения"
	msgApproveConflict  = "слот уже занят подтверждённым бронированием, запрос удалён"
)

type Handler struct {
	useCase ApproveBookingUseCase
	logger  Logger
}

func NewHandler(useCase ApproveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/approve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingIDStr := vars["bookingId"]

	bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/approve - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/approve - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, approveBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/approve - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, approveBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/approve - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, approveBooking.ErrApproveConflict):
			h.logger.Warn("POST /bookings/{id}/approve - Slot lost to confirmed booking: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgApproveConflict)

		case errors.Is(err, approveBooking.ErrInvalidStatus):
			h.logger.Warn("POST /bookings/{id}/approve - Not pending: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgNotPending)

		default:
			h.logger.Error("POST /bookings/{id}/approve - Failed to approve booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/approve - Booking approved successfully: booking_id=%d, mentor_id=%d",
		bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
