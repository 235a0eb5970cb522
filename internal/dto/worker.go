package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// CreateWorkerRequest defines the data needed to register a worker.
type CreateWorkerRequest struct {
	FullName  string          `json:"fullName" binding:"required"`
	Mobile    string          `json:"mobile" binding:"required"`
	Category  string          `json:"category" binding:"required"`
	DailyWage decimal.Decimal `json:"dailyWage" binding:"required"`
	PhotoURL  string          `json:"photoUrl"`
}

// UpdateWorkerRequest defines the fields allowed to change on a worker.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateWorkerRequest struct {
	FullName  *string          `json:"fullName"`
	Mobile    *string          `json:"mobile"`
	Category  *string          `json:"category"`
	DailyWage *decimal.Decimal `json:"dailyWage"`
	PhotoURL  *string          `json:"photoUrl"`
	IsActive  *bool            `json:"isActive"`
}

// MarkAttendanceRequest records attendance for one calendar day.
type MarkAttendanceRequest struct {
	Date    time.Time               `json:"date" binding:"required"`
	Status  domain.AttendanceStatus `json:"status" binding:"required,oneof=Present Absent HalfDay Late"`
	LateFee decimal.Decimal         `json:"lateFee"`
}

// AddAdvanceRequest records money given ahead of settlement.
type AddAdvanceRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason"`
}

// SettleWorkerRequest closes a payroll cycle. AmountPaid left out means the
// full net payable is paid; zero means nothing is paid and everything carries
// forward as dues.
type SettleWorkerRequest struct {
	AmountPaid *decimal.Decimal `json:"amountPaid"`
	ProjectID  string           `json:"projectID" binding:"required"`
	Notes      string           `json:"notes"`
}

// SettlementPreviewResponse shows the pending settlement figures.
type SettlementPreviewResponse struct {
	Earnings     decimal.Decimal `json:"earnings"`
	Deductions   decimal.Decimal `json:"deductions"`
	PreviousDues decimal.Decimal `json:"previousDues"`
	NetPayable   decimal.Decimal `json:"netPayable"`
	UnpaidDays   int             `json:"unpaidDays"`
	OpenAdvances int             `json:"openAdvances"`
}

// WorkerResponse defines the data returned for a worker.
type WorkerResponse struct {
	WorkerID    string                   `json:"workerID"`
	WorkerNo    string                   `json:"workerNo"`
	FullName    string                   `json:"fullName"`
	Mobile      string                   `json:"mobile"`
	Category    string                   `json:"category"`
	PhotoURL    string                   `json:"photoUrl,omitempty"`
	DailyWage   decimal.Decimal          `json:"dailyWage"`
	PendingDues decimal.Decimal          `json:"pendingDues"`
	IsActive    bool                     `json:"isActive"`
	Attendance  []domain.AttendanceEntry `json:"attendance"`
	Advances    []domain.Advance         `json:"advances"`
	Settlements []domain.Settlement      `json:"settlements"`
	CreatedAt   time.Time                `json:"createdAt"`
}

// ListWorkersResponse is a page of workers plus the token for the next page.
type ListWorkersResponse struct {
	Workers   []WorkerResponse `json:"workers"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ToWorkerResponse converts a domain.Worker to its response form.
func ToWorkerResponse(w *domain.Worker) WorkerResponse {
	return WorkerResponse{
		WorkerID:    w.WorkerID,
		WorkerNo:    w.WorkerNo,
		FullName:    w.FullName,
		Mobile:      w.Mobile,
		Category:    w.Category,
		PhotoURL:    w.PhotoURL,
		DailyWage:   w.DailyWage,
		PendingDues: w.PendingDues,
		IsActive:    w.IsActive,
		Attendance:  w.Attendance,
		Advances:    w.Advances,
		Settlements: w.Settlements,
		CreatedAt:   w.CreatedAt,
	}
}

// ToWorkerResponses converts a slice of workers.
func ToWorkerResponses(workers []domain.Worker) []WorkerResponse {
	responses := make([]WorkerResponse, len(workers))
	for i := range workers {
		responses[i] = ToWorkerResponse(&workers[i])
	}
	return responses
}

// ToSettlementPreviewResponse converts a settlement computation to its response form.
func ToSettlementPreviewResponse(c *domain.SettlementComputation) SettlementPreviewResponse {
	return SettlementPreviewResponse{
		Earnings:     c.Earnings,
		Deductions:   c.Deductions,
		PreviousDues: c.PreviousDues,
		NetPayable:   c.NetPayable,
		UnpaidDays:   c.UnpaidDays,
		OpenAdvances: c.OpenAdvances,
	}
}
