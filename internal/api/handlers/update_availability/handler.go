package update_availability

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
	msgInvalidMentorID    = "некорректный ID ментора"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidTimezone    = "некорректный идентификатор таймзоны"
	msgInvalidDuration    = "некорректная длительность слота"
	msgInvalidRange       = "некорректный диапазон доступности"
	msgDuplicateOverride  = "дата недоступности указана дважды"
	msgInvalidInput       = "некорректные данные конфигурации"
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

// Handle PUT /api/v1/mentors/{mentorId}/availability/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	mentorIDStr := vars["mentorId"]

	mentorID, err := strconv.ParseInt(mentorIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /mentors/{id}/availability/config - Invalid mentor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMentorID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /mentors/{id}/availability/config - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /mentors/{id}/availability/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	config, err := h.service.Replace(r.Context(), req.ToServiceRequest(mentorID, userID))
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PUT /mentors/{id}/availability/config - Access denied: mentor_id=%d, user_id=%d",
				mentorID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrInvalidTimezone):
			h.logger.Warn("PUT /mentors/{id}/availability/config - Invalid timezone: mentor_id=%d, error=%v",
				mentorID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidTimezone)

		case errors.Is(err, availability.ErrInvalidSlotDuration):
			h.logger.Warn("PUT /mentors/{id}/availability/config - Invalid slot duration: mentor_id=%d, error=%v",
				mentorID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidDuration)

		case errors.Is(err, availability.ErrInvalidTimeRange):
			h.logger.Warn("PUT /mentors/{id}/availability/config - Invalid time range: mentor_id=%d, error=%v",
				mentorID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidRange)

		case errors.Is(err, availability.ErrDuplicateOverride):
			h.logger.Warn("PUT /mentors/{id}/availability/config - Duplicate override: mentor_id=%d, error=%v",
				mentorID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgDuplicateOverride)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("PUT /mentors/{id}/availability/config - Invalid input: mentor_id=%d, error=%v",
				mentorID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /mentors/{id}/availability/config - Failed to replace config: mentor_id=%d, error=%v",
				mentorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /mentors/{id}/availability/config - Config replaced successfully: mentor_id=%d", mentorID)
	handlers.RespondJSON(w, http.StatusOK, config)
}
