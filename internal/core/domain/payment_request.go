package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequestStatus is the lifecycle state of a payment request.
type PaymentRequestStatus string

const (
	PaymentPending  PaymentRequestStatus = "PENDING"
	PaymentVerified PaymentRequestStatus = "VERIFIED"
	PaymentReleased PaymentRequestStatus = "RELEASED"
	PaymentRejected PaymentRequestStatus = "REJECTED"
)

// IsTerminal reports whether the request can change no further.
func (s PaymentRequestStatus) IsTerminal() bool {
	return s == PaymentReleased || s == PaymentRejected
}

// AdvanceLedger tracks advance money already paid to the vendor and how much
// of it this payment adjusts.
type AdvanceLedger struct {
	AdvancePaid    decimal.Decimal `json:"advancePaid"`
	AdjustedAmount decimal.Decimal `json:"adjustedAmount"`
	Balance        decimal.Decimal `json:"balance"`
}

// RetentionLedger tracks the portion withheld until the defect-liability
// period elapses.
type RetentionLedger struct {
	Percentage       decimal.Decimal `json:"percentage"`
	Amount           decimal.Decimal `json:"amount"`
	ReleaseCondition string          `json:"releaseCondition,omitempty"`
	ReleaseDate      *time.Time      `json:"releaseDate,omitempty"`
}

// InvoiceDetails reference the vendor invoice backing the request.
type InvoiceDetails struct {
	InvoiceNumber string     `json:"invoiceNumber,omitempty"`
	InvoiceDate   *time.Time `json:"invoiceDate,omitempty"`
	InvoiceURL    string     `json:"invoiceUrl,omitempty"`
}

// PaymentDetails record how a released payment was made.
type PaymentDetails struct {
	Mode        string     `json:"mode,omitempty"`
	ReferenceID string     `json:"referenceID,omitempty"`
	PaidDate    *time.Time `json:"paidDate,omitempty"`
}

// PaymentRequest asks for money to be paid out to a vendor, moving
// PENDING -> VERIFIED -> RELEASED (or REJECTED). Creating one locks its
// amount against the project budget; release or rejection unlocks it.
type PaymentRequest struct {
	PaymentID   string               `json:"paymentID"` // Primary key (UUID)
	RequestNo   string               `json:"requestNo"` // Human-readable: PAY-YYMM-NNNNN
	CompanyID   string               `json:"companyID"`
	VendorID    string               `json:"vendorID"`
	ProjectID   string               `json:"projectID"`
	Amount      decimal.Decimal      `json:"amount"` // Always >= 0
	Purpose     string               `json:"purpose"`
	Category    TransactionCategory  `json:"category"`
	Status      PaymentRequestStatus `json:"status"`
	Advance     AdvanceLedger        `json:"advance"`
	Retention   RetentionLedger      `json:"retention"`
	Invoice     InvoiceDetails       `json:"invoice"`
	Payment     PaymentDetails       `json:"payment"`
	RequestedBy string               `json:"requestedBy"`
	VerifiedBy  string               `json:"verifiedBy,omitempty"`
	ReleasedBy  string               `json:"releasedBy,omitempty"`
	Timeline    []TimelineEntry      `json:"timeline"`
	AuditFields
}
