package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/v-gridnev/MH-BookingService/internal/api/handlers"
	getAvailability "github.com/v-gridnev/MH-BookingService/internal/usecase/get_availability"
)

const (
	msgInvalidMentorID     = "некорректный ID ментора"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange        = "некорректный диапазон дат"
	msgRangeTooWide        = "запрошенный диапазон дат слишком велик"
	msgMentorNotConfigured = "у ментора нет расписания доступности"
	msgBrokenConfiguration = "расписание ментора настроено некорректно"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/mentors/{mentorId}/availability
// Query params: startDate (optional, YYYY-MM-DD), endDate (optional, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	mentorIDStr := vars["mentorId"]
	mentorID, err := strconv.ParseInt(mentorIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /mentors/{id}/availability - Invalid mentor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMentorID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(mentorID,
		r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"), time.Now())
	if err != nil {
		h.logger.Warn("GET /mentors/{id}/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrMentorNotConfigured):
			h.logger.Warn("GET /mentors/{id}/availability - Mentor not configured: mentor_id=%d", mentorID)
			handlers.RespondNotFound(w, msgMentorNotConfigured)

		case errors.Is(err, getAvailability.ErrInvalidConfiguration):
			h.logger.Warn("GET /mentors/{id}/availability - Broken configuration: mentor_id=%d, error=%v", mentorID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgBrokenConfiguration)

		case errors.Is(err, getAvailability.ErrRangeTooWide):
			h.logger.Warn("GET /mentors/{id}/availability - Range too wide: mentor_id=%d", mentorID)
			handlers.RespondBadRequest(w, msgRangeTooWide)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /mentors/{id}/availability - Invalid input: mentor_id=%d, error=%v", mentorID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /mentors/{id}/availability - Failed to resolve availability: mentor_id=%d, error=%v",
				mentorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /mentors/{id}/availability - Availability resolved successfully: mentor_id=%d, days=%d",
		mentorID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, response)
}
