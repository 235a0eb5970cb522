package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// CreateTransactionRequest defines the data needed to record a ledger entry.
type CreateTransactionRequest struct {
	Direction   domain.TransactionDirection `json:"direction" binding:"required,oneof=INCOME EXPENSE"`
	Category    domain.TransactionCategory  `json:"category" binding:"required"`
	Amount      decimal.Decimal             `json:"amount" binding:"required"`
	ProjectID   string                      `json:"projectID" binding:"required"`
	VendorID    *string                     `json:"vendorID"`
	BOQItem     string                      `json:"boqItem"`
	GST         *GSTBreakupRequest          `json:"gst"`
	PaymentMode string                      `json:"paymentMode"`
	ReferenceID string                      `json:"referenceID"`
	Description string                      `json:"description"`
	LedgerDate  *time.Time                  `json:"ledgerDate"`
}

// GSTBreakupRequest carries the tax split attached to a transaction.
type GSTBreakupRequest struct {
	CGST        decimal.Decimal `json:"cgst"`
	SGST        decimal.Decimal `json:"sgst"`
	IGST        decimal.Decimal `json:"igst"`
	VendorGSTIN string          `json:"vendorGSTIN"`
}

// SettleTransactionRequest defines the data recorded when settling.
type SettleTransactionRequest struct {
	PaymentMode string `json:"paymentMode"`
	ReferenceID string `json:"referenceID"`
	Note        string `json:"note"`
}

// ListTransactionsParams carries list filters and pagination.
type ListTransactionsParams struct {
	Direction *domain.TransactionDirection `form:"direction" binding:"omitempty,oneof=INCOME EXPENSE"`
	Category  *domain.TransactionCategory  `form:"category"`
	ProjectID *string                      `form:"projectID"`
	VendorID  *string                      `form:"vendorID"`
	Status    *domain.TransactionStatus    `form:"status"`
	Limit     int                          `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string                      `form:"nextToken"`
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID string                      `json:"transactionID"`
	TransactionNo string                      `json:"transactionNo"`
	Direction     domain.TransactionDirection `json:"direction"`
	Category      domain.TransactionCategory  `json:"category"`
	Amount        decimal.Decimal             `json:"amount"`
	ProjectID     string                      `json:"projectID"`
	VendorID      string                      `json:"vendorID,omitempty"`
	BOQItem       string                      `json:"boqItem,omitempty"`
	GST           domain.GSTBreakup           `json:"gst"`
	PaymentMode   string                      `json:"paymentMode,omitempty"`
	ReferenceID   string                      `json:"referenceID,omitempty"`
	Description   string                      `json:"description,omitempty"`
	Status        domain.TransactionStatus    `json:"status"`
	ApprovedBy    string                      `json:"approvedBy,omitempty"`
	LedgerDate    time.Time                   `json:"ledgerDate"`
	Timeline      []TimelineEntryResponse     `json:"timeline"`
	CreatedAt     time.Time                   `json:"createdAt"`
	CreatedBy     string                      `json:"createdBy"`
}

// ListTransactionsResponse is a page of transactions plus the token for the next page.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ProjectFinancialSummary totals settled money per direction and category.
type ProjectFinancialSummary struct {
	ProjectID     string                                         `json:"projectID"`
	TotalIncome   decimal.Decimal                                `json:"totalIncome"`
	TotalExpense  decimal.Decimal                                `json:"totalExpense"`
	NetPosition   decimal.Decimal                                `json:"netPosition"`
	IncomeByType  map[domain.TransactionCategory]decimal.Decimal `json:"incomeByType"`
	ExpenseByType map[domain.TransactionCategory]decimal.Decimal `json:"expenseByType"`
}

// ToTransactionResponse converts a domain.Transaction to its response form.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		TransactionNo: txn.TransactionNo,
		Direction:     txn.Direction,
		Category:      txn.Category,
		Amount:        txn.Amount,
		ProjectID:     txn.ProjectID,
		VendorID:      txn.VendorID,
		BOQItem:       txn.BOQItem,
		GST:           txn.GST,
		PaymentMode:   txn.PaymentMode,
		ReferenceID:   txn.ReferenceID,
		Description:   txn.Description,
		Status:        txn.Status,
		ApprovedBy:    txn.ApprovedBy,
		LedgerDate:    txn.LedgerDate,
		Timeline:      ToTimelineResponses(txn.Timeline),
		CreatedAt:     txn.CreatedAt,
		CreatedBy:     txn.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
