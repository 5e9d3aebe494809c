package get_availability_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/v-gridnev/MH-BookingService/internal/api/handlers"
	"github.com/v-gridnev/MH-BookingService/internal/api/middleware"
	"github.com/v-gridnev/MH-BookingService/internal/service/availability"
)

const (
	msgInvalidMentorID = "некорректный ID ментора"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgNotFound        = "конфигурация доступности не найдена"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/mentors/{mentorId}/availability/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	mentorIDStr := vars["mentorId"]

	mentorID, err := strconv.ParseInt(mentorIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /mentors/{id}/availability/config - Invalid mentor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMentorID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /mentors/{id}/availability/config - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	config, err := h.service.GetConfig(r.Context(), mentorID, userID)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrConfigNotFound):
			h.logger.Warn("GET /mentors/{id}/availability/config - Config not found: mentor_id=%d", mentorID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("GET /mentors/{id}/availability/config - Access denied: mentor_id=%d, user_id=%d",
				mentorID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /mentors/{id}/availability/config - Failed to get config: mentor_id=%d, error=%v",
				mentorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /mentors/{id}/availability/config - Config retrieved successfully: mentor_id=%d", mentorID)
	handlers.RespondJSON(w, http.StatusOK, config)
}
