package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus is the lifecycle state of a purchase order.
type PurchaseOrderStatus string

const (
	PODraft           PurchaseOrderStatus = "DRAFT"
	POPendingApproval PurchaseOrderStatus = "PENDING_APPROVAL"
	POApproved        PurchaseOrderStatus = "APPROVED"
	POIssued          PurchaseOrderStatus = "ISSUED"
	POInTransit       PurchaseOrderStatus = "IN_TRANSIT"
	PODelivered       PurchaseOrderStatus = "DELIVERED"
	POClosed          PurchaseOrderStatus = "CLOSED"
	POCancelled       PurchaseOrderStatus = "CANCELLED"
)

// IsTerminal reports whether the order can change no further.
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == POClosed || s == POCancelled
}

// ApprovalStatus is the state of one rung of the approval ladder.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// Approval is one level of the purchase order approval ladder.
type Approval struct {
	Level      int            `json:"level"`
	Approver   string         `json:"approver,omitempty"`
	Status     ApprovalStatus `json:"status"`
	Comments   string         `json:"comments,omitempty"`
	ApprovedAt *time.Time     `json:"approvedAt,omitempty"`
}

// POItem is one ordered line.
type POItem struct {
	MaterialID string          `json:"materialID"`
	Quantity   decimal.Decimal `json:"quantity"`
	Rate       decimal.Decimal `json:"rate"`
	Total      decimal.Decimal `json:"total"`
}

// DeliveredItem is one line of a (possibly partial) delivery.
type DeliveredItem struct {
	MaterialID        string          `json:"materialID"`
	QuantityDelivered decimal.Decimal `json:"quantityDelivered"`
}

// PartialDelivery records one goods receipt against the order.
type PartialDelivery struct {
	DeliveryDate time.Time       `json:"deliveryDate"`
	Items        []DeliveredItem `json:"items"`
	ReceivedBy   string          `json:"receivedBy"`
	Note         string          `json:"note,omitempty"`
}

// DeliveryStatus summarizes goods receipt against the full order.
type DeliveryStatus string

const (
	DeliveryPending  DeliveryStatus = "PENDING"
	DeliveryPartial  DeliveryStatus = "PARTIAL"
	DeliveryComplete DeliveryStatus = "COMPLETE"
)

// PurchaseOrder is an order placed with a vendor, moving
// DRAFT -> PENDING_APPROVAL -> APPROVED -> ISSUED -> IN_TRANSIT -> DELIVERED -> CLOSED.
type PurchaseOrder struct {
	POID                 string              `json:"poID"`     // Primary key (UUID)
	PONumber             string              `json:"poNumber"` // Externally assigned
	CompanyID            string              `json:"companyID"`
	VendorID             string              `json:"vendorID"`
	ProjectID            string              `json:"projectID"`
	Items                []POItem            `json:"items"`
	TotalAmount          decimal.Decimal     `json:"totalAmount"`
	GST                  GSTBreakup          `json:"gst"`
	GrandTotal           decimal.Decimal     `json:"grandTotal"`
	Status               PurchaseOrderStatus `json:"status"`
	Approvals            []Approval          `json:"approvals"`
	ExpectedDeliveryDate time.Time           `json:"expectedDeliveryDate"`
	ActualDeliveryDate   *time.Time          `json:"actualDeliveryDate,omitempty"`
	PartialDeliveries    []PartialDelivery   `json:"partialDeliveries"`
	DeliveryStatus       DeliveryStatus      `json:"deliveryStatus"`
	RequestedBy          string              `json:"requestedBy"`
	Timeline             []TimelineEntry     `json:"timeline"`
	AuditFields
}

// AllApproved reports whether every rung of the approval ladder is APPROVED.
// An order with no ladder attached is not approved.
func (po *PurchaseOrder) AllApproved() bool {
	if len(po.Approvals) == 0 {
		return false
	}
	for _, a := range po.Approvals {
		if a.Status != ApprovalApproved {
			return false
		}
	}
	return true
}

// IsDeliveryComplete recomputes completeness by summing delivered quantities
// per material across all partial deliveries and comparing against each
// ordered line.
func (po *PurchaseOrder) IsDeliveryComplete() bool {
	delivered := make(map[string]decimal.Decimal)
	for _, d := range po.PartialDeliveries {
		for _, item := range d.Items {
			delivered[item.MaterialID] = delivered[item.MaterialID].Add(item.QuantityDelivered)
		}
	}
	for _, line := range po.Items {
		if delivered[line.MaterialID].LessThan(line.Quantity) {
			return false
		}
	}
	return true
}
