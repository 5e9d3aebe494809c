package get_mentee_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/v-gridnev/MH-BookingService/internal/api/handlers"
	"github.com/v-gridnev/MH-BookingService/internal/api/middleware"
	"github.com/v-gridnev/MH-BookingService/internal/service/bookings"
	"github.com/v-gridnev/MH-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidMenteeID = "некорректный ID менти"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgForbidden       = "доступ запрещен"
	msgInvalidStatus   = "некорректный статус бронирования"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/mentees/{menteeId}/bookings
// Query params: status (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	menteeIDStr := vars["menteeId"]

	menteeID, err := strconv.ParseInt(menteeIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /mentees/{id}/bookings - Invalid mentee ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMenteeID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /mentees/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Историю менти видит только он сам
	if userID != menteeID {
		h.logger.Warn("GET /mentees/{id}/bookings - Access denied: mentee_id=%d, user_id=%d", menteeID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	status := r.URL.Query().Get("status")
	var statusPtr *string
	if status != "" {
		statusPtr = &status
	}

	serviceReq := &models.GetMenteeBookingsRequest{
		MenteeID: menteeID,
		Status:   statusPtr,
	}

	result, err := h.service.GetMenteeBookings(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /mentees/{id}/bookings - Invalid status: mentee_id=%d, status=%s", menteeID, status)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		h.logger.Error("GET /mentees/{id}/bookings - Failed to get bookings: mentee_id=%d, error=%v",
			menteeID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /mentees/{id}/bookings - Bookings retrieved successfully: mentee_id=%d, count=%d",
		menteeID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
