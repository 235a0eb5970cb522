package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitesutra/construction_erp_app/internal/apperrors"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	portsrepo "github.com/sitesutra/construction_erp_app/internal/core/ports/repositories"
	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/dto"
)

// payrollService implements worker ledgers and the settlement engine.
type payrollService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	counterRepo portsrepo.CounterRepository
	workerRepo  portsrepo.WorkerRepositoryFacade
	projectRepo portsrepo.ProjectRepositoryFacade
	txnRepo     portsrepo.TransactionRepositoryFacade
}

// NewPayrollService creates a new payroll service.
func NewPayrollService(
	txManager portsrepo.TransactionManager,
	counterRepo portsrepo.CounterRepository,
	workerRepo portsrepo.WorkerRepositoryFacade,
	projectRepo portsrepo.ProjectRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	notifier portssvc.Notifier,
) portssvc.PayrollSvcFacade {
	return &payrollService{
		BaseService: BaseService{Notifier: notifier},
		txManager:   txManager,
		counterRepo: counterRepo,
		workerRepo:  workerRepo,
		projectRepo: projectRepo,
		txnRepo:     txnRepo,
	}
}

var _ portssvc.PayrollSvcFacade = (*payrollService)(nil)

func (s *payrollService) GetWorkerByID(ctx context.Context, companyID, workerID string) (*domain.Worker, error) {
	return s.workerRepo.FindWorkerByID(ctx, companyID, workerID)
}

func (s *payrollService) ListWorkers(ctx context.Context, companyID string, activeOnly bool, limit int, nextToken *string) (*dto.ListWorkersResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	workers, next, err := s.workerRepo.ListWorkers(ctx, companyID, activeOnly, limit, nextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListWorkersResponse{
		Workers:   dto.ToWorkerResponses(workers),
		NextToken: next,
	}, nil
}

func (s *payrollService) PreviewSettlement(ctx context.Context, companyID, workerID string) (*domain.SettlementComputation, error) {
	worker, err := s.workerRepo.FindWorkerByID(ctx, companyID, workerID)
	if err != nil {
		return nil, err
	}
	comp := domain.ComputeSettlement(worker)
	return &comp, nil
}

func (s *payrollService) CreateWorker(ctx context.Context, actor domain.Actor, req dto.CreateWorkerRequest) (*domain.Worker, error) {
	logger := s.GetLogger(ctx)

	if req.DailyWage.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: daily wage must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	worker := domain.Worker{
		WorkerID:    uuid.NewString(),
		CompanyID:   actor.CompanyID,
		FullName:    req.FullName,
		Mobile:      req.Mobile,
		Category:    req.Category,
		PhotoURL:    req.PhotoURL,
		DailyWage:   req.DailyWage,
		IsActive:    true,
		AuditFields: newAuditFields(actor, now),
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		seq, err := s.counterRepo.Next(ctx, actor.CompanyID, "LAB")
		if err != nil {
			return fmt.Errorf("failed to allocate worker number: %w", err)
		}
		worker.WorkerNo = fmt.Sprintf("LAB-%04d", seq)
		return s.workerRepo.SaveWorker(ctx, worker)
	})
	if err != nil {
		logger.Warn("Failed to create worker", slog.String("error", err.Error()), slog.String("full_name", req.FullName))
		return nil, err
	}

	logger.Info("Worker registered", slog.String("worker_no", worker.WorkerNo))
	return &worker, nil
}

func (s *payrollService) UpdateWorker(ctx context.Context, actor domain.Actor, workerID string, req dto.UpdateWorkerRequest) (*domain.Worker, error) {
	var worker *domain.Worker
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		worker, err = s.workerRepo.FindWorkerByIDForUpdate(ctx, actor.CompanyID, workerID)
		if err != nil {
			return err
		}

		if req.FullName != nil {
			worker.FullName = *req.FullName
		}
		if req.Mobile != nil {
			worker.Mobile = *req.Mobile
		}
		if req.Category != nil {
			worker.Category = *req.Category
		}
		if req.DailyWage != nil {
			if req.DailyWage.LessThanOrEqual(decimal.Zero) {
				return fmt.Errorf("%w: daily wage must be positive", apperrors.ErrValidation)
			}
			worker.DailyWage = *req.DailyWage
		}
		if req.PhotoURL != nil {
			worker.PhotoURL = *req.PhotoURL
		}
		if req.IsActive != nil {
			worker.IsActive = *req.IsActive
		}
		touchAudit(&worker.AuditFields, actor, time.Now().UTC())
		return s.workerRepo.UpdateWorker(ctx, *worker)
	})
	if err != nil {
		return nil, err
	}
	return worker, nil
}

// MarkAttendance records one calendar day. A day already settled into a
// payout cannot be rewritten.
func (s *payrollService) MarkAttendance(ctx context.Context, actor domain.Actor, workerID string, req dto.MarkAttendanceRequest) (*domain.Worker, error) {
	logger := s.GetLogger(ctx)

	if req.Status == domain.AttendanceLate && req.LateFee.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: late fee must not be negative", apperrors.ErrValidation)
	}

	var worker *domain.Worker
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		worker, err = s.workerRepo.FindWorkerByIDForUpdate(ctx, actor.CompanyID, workerID)
		if err != nil {
			return err
		}

		day := domain.TruncateToDay(req.Date)
		for _, entry := range worker.Attendance {
			if domain.TruncateToDay(entry.Date).Equal(day) && entry.Paid {
				return fmt.Errorf("%w: attendance for %s is already settled", apperrors.ErrConflict, day.Format("2006-01-02"))
			}
		}

		worker.UpsertAttendance(req.Date, req.Status, req.LateFee)
		touchAudit(&worker.AuditFields, actor, time.Now().UTC())
		return s.workerRepo.UpdateWorker(ctx, *worker)
	})
	if err != nil {
		logger.Warn("Failed to mark attendance", slog.String("error", err.Error()), slog.String("worker_id", workerID))
		return nil, err
	}
	return worker, nil
}

func (s *payrollService) RemoveAttendance(ctx context.Context, actor domain.Actor, workerID string, date time.Time) (*domain.Worker, error) {
	var worker *domain.Worker
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		worker, err = s.workerRepo.FindWorkerByIDForUpdate(ctx, actor.CompanyID, workerID)
		if err != nil {
			return err
		}

		day := domain.TruncateToDay(date)
		for _, entry := range worker.Attendance {
			if domain.TruncateToDay(entry.Date).Equal(day) && entry.Paid {
				return fmt.Errorf("%w: attendance for %s is already settled", apperrors.ErrConflict, day.Format("2006-01-02"))
			}
		}
		if !worker.RemoveAttendance(date) {
			return fmt.Errorf("%w: no attendance entry for %s", apperrors.ErrNotFound, day.Format("2006-01-02"))
		}
		touchAudit(&worker.AuditFields, actor, time.Now().UTC())
		return s.workerRepo.UpdateWorker(ctx, *worker)
	})
	if err != nil {
		return nil, err
	}
	return worker, nil
}

func (s *payrollService) AddAdvance(ctx context.Context, actor domain.Actor, workerID string, req dto.AddAdvanceRequest) (*domain.Worker, error) {
	logger := s.GetLogger(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: advance amount must be positive", apperrors.ErrValidation)
	}

	var worker *domain.Worker
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		worker, err = s.workerRepo.FindWorkerByIDForUpdate(ctx, actor.CompanyID, workerID)
		if err != nil {
			return err
		}

		worker.Advances = append(worker.Advances, domain.Advance{
			Date:   time.Now().UTC(),
			Amount: req.Amount,
			Reason: req.Reason,
		})
		touchAudit(&worker.AuditFields, actor, time.Now().UTC())
		return s.workerRepo.UpdateWorker(ctx, *worker)
	})
	if err != nil {
		logger.Warn("Failed to add advance", slog.String("error", err.Error()), slog.String("worker_id", workerID))
		return nil, err
	}
	return worker, nil
}

// SettleWorker closes a payroll cycle. Net payable is earnings plus carried
// dues minus open advances; omitting amountPaid pays the full net payable,
// and whatever is not paid out now (which can be negative on overpayment)
// becomes the new pending dues. The payout posts as a settled wages expense
// against the project ledger in the same transaction.
func (s *payrollService) SettleWorker(ctx context.Context, actor domain.Actor, workerID string, req dto.SettleWorkerRequest) (*domain.Worker, error) {
	logger := s.GetLogger(ctx)

	if req.AmountPaid != nil && req.AmountPaid.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount paid must not be negative", apperrors.ErrValidation)
	}

	var worker *domain.Worker
	var comp domain.SettlementComputation
	var actualPaid decimal.Decimal
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		worker, err = s.workerRepo.FindWorkerByIDForUpdate(ctx, actor.CompanyID, workerID)
		if err != nil {
			return err
		}
		if _, err := s.projectRepo.FindProjectByID(ctx, actor.CompanyID, req.ProjectID); err != nil {
			return err
		}

		comp = domain.ComputeSettlement(worker)
		if comp.UnpaidDays == 0 && comp.OpenAdvances == 0 && worker.PendingDues.IsZero() {
			return fmt.Errorf("%w: nothing to settle", apperrors.ErrValidation)
		}

		actualPaid = comp.NetPayable
		if req.AmountPaid != nil {
			actualPaid = *req.AmountPaid
		}

		now := time.Now().UTC()
		for i := range worker.Attendance {
			worker.Attendance[i].Paid = true
		}
		for i := range worker.Advances {
			worker.Advances[i].Settled = true
		}
		worker.Settlements = append(worker.Settlements, domain.Settlement{
			Date:            now,
			TotalEarnings:   comp.Earnings,
			TotalDeductions: comp.Deductions,
			NetPayable:      comp.NetPayable,
			AmountPaid:      actualPaid,
			Notes:           req.Notes,
		})
		worker.PendingDues = comp.NetPayable.Sub(actualPaid)
		touchAudit(&worker.AuditFields, actor, now)
		if err := s.workerRepo.UpdateWorker(ctx, *worker); err != nil {
			return err
		}

		if actualPaid.GreaterThan(decimal.Zero) {
			if err := s.postWagesExpense(ctx, actor, worker, req.ProjectID, actualPaid, now); err != nil {
				return err
			}
			if err := s.projectRepo.AdjustBudgetFigures(ctx, actor.CompanyID, req.ProjectID, decimal.Zero, actualPaid); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("Failed to settle worker", slog.String("error", err.Error()), slog.String("worker_id", workerID))
		return nil, err
	}

	logger.Info("Worker settled",
		slog.String("worker_no", worker.WorkerNo),
		slog.String("net_payable", comp.NetPayable.String()),
		slog.String("amount_paid", actualPaid.String()),
		slog.String("pending_dues", worker.PendingDues.String()))
	s.notify(ctx, actor, req.ProjectID, "WORKER_SETTLED", fmt.Sprintf("Worker %s settled", worker.WorkerNo), map[string]any{
		"workerID":    worker.WorkerID,
		"amountPaid":  actualPaid,
		"pendingDues": worker.PendingDues,
	})
	if actualPaid.GreaterThan(decimal.Zero) {
		s.alertIfOverBudget(ctx, actor, s.projectRepo, req.ProjectID)
	}
	return worker, nil
}

// postWagesExpense records the settled payroll ledger entry for a payout.
func (s *payrollService) postWagesExpense(ctx context.Context, actor domain.Actor, worker *domain.Worker, projectID string, amountPaid decimal.Decimal, now time.Time) error {
	seq, err := s.counterRepo.Next(ctx, actor.CompanyID, monthScope("EXP", now))
	if err != nil {
		return fmt.Errorf("failed to allocate transaction number: %w", err)
	}
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		TransactionNo: docNumber("EXP", now, seq, 5),
		CompanyID:     actor.CompanyID,
		Direction:     domain.Expense,
		Category:      domain.CategoryPayroll,
		Amount:        amountPaid,
		ProjectID:     projectID,
		Description:   fmt.Sprintf("Wage settlement for %s", worker.WorkerNo),
		Status:        domain.TxnSettled,
		LedgerDate:    now,
		Timeline:      []domain.TimelineEntry{newTimelineEntry(string(domain.TxnSettled), actor, "auto-generated from wage settlement")},
		AuditFields:   newAuditFields(actor, now),
	}
	return s.txnRepo.SaveTransaction(ctx, txn)
}
