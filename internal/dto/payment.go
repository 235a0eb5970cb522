package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// CreatePaymentRequestRequest defines the data needed to open a payment request.
type CreatePaymentRequestRequest struct {
	VendorID            string                     `json:"vendorID" binding:"required"`
	ProjectID           string                     `json:"projectID" binding:"required"`
	Amount              decimal.Decimal            `json:"amount" binding:"required"`
	Purpose             string                     `json:"purpose" binding:"required"`
	Category            domain.TransactionCategory `json:"category"`
	RetentionPercentage decimal.Decimal            `json:"retentionPercentage"`
	AdvanceAdjustment   decimal.Decimal            `json:"advanceAdjustment"`
	InvoiceNumber       string                     `json:"invoiceNumber"`
	InvoiceDate         *time.Time                 `json:"invoiceDate"`
	InvoiceURL          string                     `json:"invoiceUrl"`
}

// ReleasePaymentRequest records how a verified payment was paid out.
type ReleasePaymentRequest struct {
	Mode        string `json:"mode" binding:"required"`
	ReferenceID string `json:"referenceID"`
	Note        string `json:"note"`
}

// ListPaymentRequestsParams carries list filters and pagination.
type ListPaymentRequestsParams struct {
	ProjectID *string                      `form:"projectID"`
	VendorID  *string                      `form:"vendorID"`
	Status    *domain.PaymentRequestStatus `form:"status"`
	Limit     int                          `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string                      `form:"nextToken"`
}

// PaymentRequestResponse defines the data returned for a payment request.
type PaymentRequestResponse struct {
	PaymentID   string                      `json:"paymentID"`
	RequestNo   string                      `json:"requestNo"`
	VendorID    string                      `json:"vendorID"`
	ProjectID   string                      `json:"projectID"`
	Amount      decimal.Decimal             `json:"amount"`
	Purpose     string                      `json:"purpose"`
	Category    domain.TransactionCategory  `json:"category"`
	Status      domain.PaymentRequestStatus `json:"status"`
	Advance     domain.AdvanceLedger        `json:"advance"`
	Retention   domain.RetentionLedger      `json:"retention"`
	Invoice     domain.InvoiceDetails       `json:"invoice"`
	Payment     domain.PaymentDetails       `json:"payment"`
	RequestedBy string                      `json:"requestedBy"`
	VerifiedBy  string                      `json:"verifiedBy,omitempty"`
	ReleasedBy  string                      `json:"releasedBy,omitempty"`
	Timeline    []TimelineEntryResponse     `json:"timeline"`
	CreatedAt   time.Time                   `json:"createdAt"`
}

// ListPaymentRequestsResponse is a page of payment requests plus the next page token.
type ListPaymentRequestsResponse struct {
	Payments  []PaymentRequestResponse `json:"payments"`
	NextToken *string                  `json:"nextToken,omitempty"`
}

// ToPaymentRequestResponse converts a domain.PaymentRequest to its response form.
func ToPaymentRequestResponse(p *domain.PaymentRequest) PaymentRequestResponse {
	return PaymentRequestResponse{
		PaymentID:   p.PaymentID,
		RequestNo:   p.RequestNo,
		VendorID:    p.VendorID,
		ProjectID:   p.ProjectID,
		Amount:      p.Amount,
		Purpose:     p.Purpose,
		Category:    p.Category,
		Status:      p.Status,
		Advance:     p.Advance,
		Retention:   p.Retention,
		Invoice:     p.Invoice,
		Payment:     p.Payment,
		RequestedBy: p.RequestedBy,
		VerifiedBy:  p.VerifiedBy,
		ReleasedBy:  p.ReleasedBy,
		Timeline:    ToTimelineResponses(p.Timeline),
		CreatedAt:   p.CreatedAt,
	}
}

// ToPaymentRequestResponses converts a slice of payment requests.
func ToPaymentRequestResponses(payments []domain.PaymentRequest) []PaymentRequestResponse {
	responses := make([]PaymentRequestResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentRequestResponse(&payments[i])
	}
	return responses
}
