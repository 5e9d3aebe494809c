package get_mentor_bookings

import (
	"net/url"
	"time"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	"github.com/v-gridnev/MH-BookingService/internal/service/bookings/models"
)

// ToServiceRequest строит запрос к сервису из path и query параметров.
// Даты в query задаются как YYYY-MM-DD; конец периода включителен.
func ToServiceRequest(mentorID, userID int64, query url.Values) (*models.GetMentorBookingsRequest, error) {
	req := &models.GetMentorBookingsRequest{
		MentorID:        mentorID,
		UserID:          userID,
		IncludeInactive: query.Get("includeInactive") == "true",
	}

	if startStr := query.Get("startDate"); startStr != "" {
		start, err := time.ParseInLocation(domain.DateFormat, startStr, time.UTC)
		if err != nil {
			return nil, err
		}
		req.StartTime = &start
	}

	if endStr := query.Get("endDate"); endStr != "" {
		end, err := time.ParseInLocation(domain.DateFormat, endStr, time.UTC)
		if err != nil {
			return nil, err
		}
		endOfDay := end.AddDate(0, 0, 1)
		req.EndTime = &endOfDay
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	return req, nil
}
