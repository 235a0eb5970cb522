package domain

import "time"

// Event is one push notification fanned out to connected clients.
// Topic scoping (company vs project) is decided by the publisher.
type Event struct {
	Type      string         `json:"type"` // e.g. MATERIAL_REQUEST_APPROVED, LOW_STOCK_ALERT
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// CompanyTopic returns the notification topic for a whole tenant.
func CompanyTopic(companyID string) string { return "company:" + companyID }

// ProjectTopic returns the notification topic for a single project.
func ProjectTopic(projectID string) string { return "project:" + projectID }
