package update_availability

import (
	"github.com/v-gridnev/MH-BookingService/internal/service/availability/models"
)

// UpdateAvailabilityRequest HTTP request model: полная замена конфигурации
type UpdateAvailabilityRequest struct {
	Timezone            string                               `json:"timezone"`
	SlotDurationMinutes int                                  `json:"slotDurationMinutes"`
	AutoApprove         bool                                 `json:"autoApprove"`
	Weekly              map[string][]models.TimeRangePayload `json:"weekly"`
	Overrides           []models.OverridePayload             `json:"overrides,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateAvailabilityRequest) ToServiceRequest(mentorID, userID int64) *models.ReplaceConfigRequest {
	return &models.ReplaceConfigRequest{
		MentorID:            mentorID,
		UserID:              userID,
		Timezone:            r.Timezone,
		SlotDurationMinutes: r.SlotDurationMinutes,
		AutoApprove:         r.AutoApprove,
		Weekly:              r.Weekly,
		Overrides:           r.Overrides,
	}
}
