package domain

import (
	"github.com/shopspring/decimal"
)

// MaterialMaster is one entry in the company's material registry.
type MaterialMaster struct {
	MaterialID     string `json:"materialID"` // Primary key (UUID)
	CompanyID      string `json:"companyID"`
	ItemCode       string `json:"itemCode"` // Unique per company
	Name           string `json:"name"`
	Category       string `json:"category"` // Cement, Steel, Electrical, ...
	Unit           string `json:"unit"`     // Bags, Tons, Kgs, ...
	Brand          string `json:"brand,omitempty"`
	Grade          string `json:"grade,omitempty"`
	Specifications string `json:"specifications,omitempty"`
	AuditFields
}

// MaterialRequestStatus is the lifecycle state of a material request.
type MaterialRequestStatus string

const (
	RequestPending   MaterialRequestStatus = "PENDING"
	RequestApproved  MaterialRequestStatus = "APPROVED"
	RequestIssued    MaterialRequestStatus = "ISSUED"
	RequestRejected  MaterialRequestStatus = "REJECTED"
	RequestCancelled MaterialRequestStatus = "CANCELLED"
)

// IsTerminal reports whether the request can change no further.
func (s MaterialRequestStatus) IsTerminal() bool {
	return s == RequestIssued || s == RequestRejected || s == RequestCancelled
}

// RequestPriority ranks how urgently the site needs the material.
type RequestPriority string

const (
	PriorityNormal   RequestPriority = "NORMAL"
	PriorityUrgent   RequestPriority = "URGENT"
	PriorityCritical RequestPriority = "CRITICAL"
)

// MaterialRequest is a site team's ask for stock, moving
// PENDING -> APPROVED -> ISSUED (or REJECTED / CANCELLED).
// Approval reserves stock; issue consumes it and triggers the auto-expense.
type MaterialRequest struct {
	RequestID  string                `json:"requestID"` // Primary key (UUID)
	RequestNo  string                `json:"requestNo"` // Human-readable: REQ-YYMM-NNNN
	CompanyID  string                `json:"companyID"`
	MaterialID string                `json:"materialID"`
	ProjectID  string                `json:"projectID"`
	Quantity   decimal.Decimal       `json:"quantity"` // Always > 0
	Status     MaterialRequestStatus `json:"status"`
	Priority   RequestPriority       `json:"priority"`
	Purpose    string                `json:"purpose"`
	Remarks    string                `json:"remarks,omitempty"`
	Requester  string                `json:"requester"`          // Site engineer
	Approver   string                `json:"approver,omitempty"` // Supervisor
	Issuer     string                `json:"issuer,omitempty"`   // Storekeeper
	Timeline   []TimelineEntry       `json:"timeline"`
	AuditFields
}
