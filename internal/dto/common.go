package dto

import (
	"time"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// TimelineEntryResponse defines one timeline row returned for any workflow entity.
type TimelineEntryResponse struct {
	Status      string    `json:"status"`
	Date        time.Time `json:"date"`
	PerformedBy string    `json:"performedBy"`
	Note        string    `json:"note,omitempty"`
}

// ToTimelineResponses converts a domain timeline to its response form.
func ToTimelineResponses(entries []domain.TimelineEntry) []TimelineEntryResponse {
	responses := make([]TimelineEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = TimelineEntryResponse{
			Status:      e.Status,
			Date:        e.Date,
			PerformedBy: e.PerformedBy,
			Note:        e.Note,
		}
	}
	return responses
}
