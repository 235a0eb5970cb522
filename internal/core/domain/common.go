package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// TimelineEntry is one immutable step in an entity's audit trail.
// Every workflow transition appends exactly one entry.
type TimelineEntry struct {
	Status      string    `json:"status"`
	Date        time.Time `json:"date"`
	PerformedBy string    `json:"performedBy"` // UserID reference
	Note        string    `json:"note,omitempty"`
}

// Actor identifies the caller of a workflow operation, extracted from the
// request identity. Token issuance and verification live outside the core.
type Actor struct {
	UserID    string
	Name      string
	CompanyID string
	Role      string
}
