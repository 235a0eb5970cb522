package services

import (
	"context"
	"time"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	"github.com/sitesutra/construction_erp_app/internal/dto"
)

// PayrollReaderSvc defines read operations for worker payroll ledgers.
type PayrollReaderSvc interface {
	// GetWorkerByID retrieves a specific worker by its ID.
	GetWorkerByID(ctx context.Context, companyID, workerID string) (*domain.Worker, error)

	// ListWorkers retrieves a paginated list of workers.
	ListWorkers(ctx context.Context, companyID string, activeOnly bool, limit int, nextToken *string) (*dto.ListWorkersResponse, error)

	// PreviewSettlement computes the pending settlement figures without
	// mutating anything.
	PreviewSettlement(ctx context.Context, companyID, workerID string) (*domain.SettlementComputation, error)
}

// PayrollWriterSvc defines write operations for worker payroll ledgers.
type PayrollWriterSvc interface {
	// CreateWorker registers a new worker with an assigned number.
	CreateWorker(ctx context.Context, actor domain.Actor, req dto.CreateWorkerRequest) (*domain.Worker, error)

	// UpdateWorker edits the worker's profile (wage, category, active flag).
	UpdateWorker(ctx context.Context, actor domain.Actor, workerID string, req dto.UpdateWorkerRequest) (*domain.Worker, error)

	// MarkAttendance records attendance for one calendar day, overwriting a
	// prior unpaid entry for the same day. Paid entries cannot be edited.
	MarkAttendance(ctx context.Context, actor domain.Actor, workerID string, req dto.MarkAttendanceRequest) (*domain.Worker, error)

	// RemoveAttendance deletes the unpaid entry for one calendar day.
	RemoveAttendance(ctx context.Context, actor domain.Actor, workerID string, date time.Time) (*domain.Worker, error)

	// AddAdvance records money given to the worker ahead of settlement.
	AddAdvance(ctx context.Context, actor domain.Actor, workerID string, req dto.AddAdvanceRequest) (*domain.Worker, error)

	// SettleWorker runs a settlement cycle: computes net payable, records
	// the payout, marks attendance paid and advances settled, and carries
	// any shortfall (or overpayment) into pending dues. It also posts a
	// settled wages expense against the project ledger.
	SettleWorker(ctx context.Context, actor domain.Actor, workerID string, req dto.SettleWorkerRequest) (*domain.Worker, error)
}

// PayrollSvcFacade combines all payroll service interfaces.
type PayrollSvcFacade interface {
	PayrollReaderSvc
	PayrollWriterSvc
}
