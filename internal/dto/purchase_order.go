package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// POItemRequest is one ordered line in a purchase order creation.
type POItemRequest struct {
	MaterialID string          `json:"materialID" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	Rate       decimal.Decimal `json:"rate" binding:"required"`
}

// CreatePurchaseOrderRequest defines the data needed to open a purchase order.
type CreatePurchaseOrderRequest struct {
	PONumber             string             `json:"poNumber" binding:"required"`
	VendorID             string             `json:"vendorID" binding:"required"`
	ProjectID            string             `json:"projectID" binding:"required"`
	Items                []POItemRequest    `json:"items" binding:"required,min=1,dive"`
	GST                  *GSTBreakupRequest `json:"gst"`
	ExpectedDeliveryDate time.Time          `json:"expectedDeliveryDate" binding:"required"`
}

// ApprovePORequest records one rung of the approval ladder.
type ApprovePORequest struct {
	Level    int    `json:"level" binding:"required,min=1"`
	Comments string `json:"comments"`
}

// DeliveredItemRequest is one received line in a goods receipt.
type DeliveredItemRequest struct {
	MaterialID        string          `json:"materialID" binding:"required"`
	QuantityDelivered decimal.Decimal `json:"quantityDelivered" binding:"required"`
	BatchNumber       string          `json:"batchNumber"`
}

// RecordDeliveryRequest appends a goods receipt to a purchase order.
type RecordDeliveryRequest struct {
	DeliveryDate time.Time              `json:"deliveryDate"`
	Items        []DeliveredItemRequest `json:"items" binding:"required,min=1,dive"`
	Note         string                 `json:"note"`
}

// ListPurchaseOrdersParams carries list filters and pagination.
type ListPurchaseOrdersParams struct {
	ProjectID *string                     `form:"projectID"`
	VendorID  *string                     `form:"vendorID"`
	Status    *domain.PurchaseOrderStatus `form:"status"`
	Limit     int                         `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string                     `form:"nextToken"`
}

// PurchaseOrderResponse defines the data returned for a purchase order.
type PurchaseOrderResponse struct {
	POID                 string                     `json:"poID"`
	PONumber             string                     `json:"poNumber"`
	VendorID             string                     `json:"vendorID"`
	ProjectID            string                     `json:"projectID"`
	Items                []domain.POItem            `json:"items"`
	TotalAmount          decimal.Decimal            `json:"totalAmount"`
	GST                  domain.GSTBreakup          `json:"gst"`
	GrandTotal           decimal.Decimal            `json:"grandTotal"`
	Status               domain.PurchaseOrderStatus `json:"status"`
	Approvals            []domain.Approval          `json:"approvals"`
	ExpectedDeliveryDate time.Time                  `json:"expectedDeliveryDate"`
	ActualDeliveryDate   *time.Time                 `json:"actualDeliveryDate,omitempty"`
	PartialDeliveries    []domain.PartialDelivery   `json:"partialDeliveries"`
	DeliveryStatus       domain.DeliveryStatus      `json:"deliveryStatus"`
	RequestedBy          string                     `json:"requestedBy"`
	Timeline             []TimelineEntryResponse    `json:"timeline"`
	CreatedAt            time.Time                  `json:"createdAt"`
}

// ListPurchaseOrdersResponse is a page of orders plus the token for the next page.
type ListPurchaseOrdersResponse struct {
	PurchaseOrders []PurchaseOrderResponse `json:"purchaseOrders"`
	NextToken      *string                 `json:"nextToken,omitempty"`
}

// ToPurchaseOrderResponse converts a domain.PurchaseOrder to its response form.
func ToPurchaseOrderResponse(po *domain.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		POID:                 po.POID,
		PONumber:             po.PONumber,
		VendorID:             po.VendorID,
		ProjectID:            po.ProjectID,
		Items:                po.Items,
		TotalAmount:          po.TotalAmount,
		GST:                  po.GST,
		GrandTotal:           po.GrandTotal,
		Status:               po.Status,
		Approvals:            po.Approvals,
		ExpectedDeliveryDate: po.ExpectedDeliveryDate,
		ActualDeliveryDate:   po.ActualDeliveryDate,
		PartialDeliveries:    po.PartialDeliveries,
		DeliveryStatus:       po.DeliveryStatus,
		RequestedBy:          po.RequestedBy,
		Timeline:             ToTimelineResponses(po.Timeline),
		CreatedAt:            po.CreatedAt,
	}
}

// ToPurchaseOrderResponses converts a slice of purchase orders.
func ToPurchaseOrderResponses(orders []domain.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return responses
}
