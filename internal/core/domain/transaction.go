package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionDirection distinguishes money coming in from money going out.
type TransactionDirection string

const (
	Income  TransactionDirection = "INCOME"
	Expense TransactionDirection = "EXPENSE"
)

// TransactionStatus is the lifecycle state of a monetary transaction.
type TransactionStatus string

const (
	TxnPending   TransactionStatus = "PENDING"
	TxnApproved  TransactionStatus = "APPROVED"
	TxnSettled   TransactionStatus = "SETTLED"
	TxnCancelled TransactionStatus = "CANCELLED"
)

// TransactionCategory classifies what the money was for.
type TransactionCategory string

const (
	CategoryMaterial    TransactionCategory = "Material"
	CategoryLabor       TransactionCategory = "Labor"
	CategoryMachinery   TransactionCategory = "Machinery"
	CategoryOverheads   TransactionCategory = "Overheads"
	CategoryCompliance  TransactionCategory = "Compliance"
	CategoryRevenue     TransactionCategory = "Revenue"
	CategoryPayroll     TransactionCategory = "Payroll"
	CategoryConsultancy TransactionCategory = "Consultancy"
)

// GSTBreakup carries regional tax components. They are opaque numbers here;
// TotalGST is their sum.
type GSTBreakup struct {
	CGST        decimal.Decimal `json:"cgst"`
	SGST        decimal.Decimal `json:"sgst"`
	IGST        decimal.Decimal `json:"igst"`
	TotalGST    decimal.Decimal `json:"totalGst"`
	VendorGSTIN string          `json:"vendorGstin,omitempty"`
}

// Total sums the individual tax components.
func (g GSTBreakup) Total() decimal.Decimal {
	return g.CGST.Add(g.SGST).Add(g.IGST)
}

// Attachment is an uploaded supporting document (invoice scan, receipt).
type Attachment struct {
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Transaction is a single monetary ledger record. A transaction is immutable
// once it reaches SETTLED.
type Transaction struct {
	TransactionID     string               `json:"transactionID"` // Primary key (UUID)
	TransactionNo     string               `json:"transactionNo"` // Human-readable: INC-YYMM-NNNNN / EXP-YYMM-NNNNN
	CompanyID         string               `json:"companyID"`
	Direction         TransactionDirection `json:"direction"`
	Category          TransactionCategory  `json:"category"`
	Amount            decimal.Decimal      `json:"amount"` // Always >= 0
	ProjectID         string               `json:"projectID"`
	VendorID          string               `json:"vendorID,omitempty"`
	MaterialRequestID string               `json:"materialRequestID,omitempty"` // Set when auto-linked from a material issue
	BOQItem           string               `json:"boqItem,omitempty"`
	GST               GSTBreakup           `json:"gst"`
	PaymentMode       string               `json:"paymentMode,omitempty"` // Cash, Bank, UPI, Cheque, NEFT, RTGS
	ReferenceID       string               `json:"referenceID,omitempty"` // Invoice number, UTR, cheque number
	Description       string               `json:"description"`
	Status            TransactionStatus    `json:"status"`
	ApprovedBy        string               `json:"approvedBy,omitempty"`
	LedgerDate        time.Time            `json:"ledgerDate"`
	Attachments       []Attachment         `json:"attachments,omitempty"`
	Timeline          []TimelineEntry      `json:"timeline"`
	AuditFields
}

// IsTerminal reports whether the status permits no further changes.
func (s TransactionStatus) IsTerminal() bool {
	return s == TxnSettled || s == TxnCancelled
}
