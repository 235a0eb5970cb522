package services

import (
	"context"
	"errors"
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

// categoryAccountCode maps a transaction category to the default chart
// account its settled amount rolls into.
var categoryAccountCode = map[domain.TransactionCategory]string{
	domain.CategoryMaterial:    "5000",
	domain.CategoryLabor:       "5100",
	domain.CategoryPayroll:     "5100",
	domain.CategoryMachinery:   "5200",
	domain.CategoryOverheads:   "5200",
	domain.CategoryCompliance:  "5300",
	domain.CategoryRevenue:     "4000",
	domain.CategoryConsultancy: "4100",
}

// ledgerService implements the monetary transaction workflow.
type ledgerService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	counterRepo portsrepo.CounterRepository
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	projectRepo portsrepo.ProjectRepositoryFacade
	vendorRepo  portsrepo.VendorRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	txManager portsrepo.TransactionManager,
	counterRepo portsrepo.CounterRepository,
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	projectRepo portsrepo.ProjectRepositoryFacade,
	vendorRepo portsrepo.VendorRepositoryFacade,
	notifier portssvc.Notifier,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService: BaseService{Notifier: notifier},
		txManager:   txManager,
		counterRepo: counterRepo,
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		projectRepo: projectRepo,
		vendorRepo:  vendorRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) CreateTransaction(ctx context.Context, actor domain.Actor, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	logger := s.GetLogger(ctx)

	if req.Amount.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	ledgerDate := now
	if req.LedgerDate != nil {
		ledgerDate = req.LedgerDate.UTC()
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		CompanyID:     actor.CompanyID,
		Direction:     req.Direction,
		Category:      req.Category,
		Amount:        req.Amount,
		ProjectID:     req.ProjectID,
		BOQItem:       req.BOQItem,
		PaymentMode:   req.PaymentMode,
		ReferenceID:   req.ReferenceID,
		Description:   req.Description,
		Status:        domain.TxnPending,
		LedgerDate:    ledgerDate,
		Timeline:      []domain.TimelineEntry{newTimelineEntry(string(domain.TxnPending), actor, "created")},
		AuditFields:   newAuditFields(actor, now),
	}
	if req.VendorID != nil {
		txn.VendorID = *req.VendorID
	}
	if req.GST != nil {
		txn.GST = domain.GSTBreakup{
			CGST:        req.GST.CGST,
			SGST:        req.GST.SGST,
			IGST:        req.GST.IGST,
			VendorGSTIN: req.GST.VendorGSTIN,
		}
		txn.GST.TotalGST = txn.GST.Total()
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.projectRepo.FindProjectByID(ctx, actor.CompanyID, req.ProjectID); err != nil {
			return err
		}
		if txn.VendorID != "" {
			if _, err := s.vendorRepo.FindVendorByID(ctx, actor.CompanyID, txn.VendorID); err != nil {
				return err
			}
		}

		prefix := "INC"
		if req.Direction == domain.Expense {
			prefix = "EXP"
		}
		seq, err := s.counterRepo.Next(ctx, actor.CompanyID, monthScope(prefix, now))
		if err != nil {
			return fmt.Errorf("failed to allocate transaction number: %w", err)
		}
		txn.TransactionNo = docNumber(prefix, now, seq, 5)

		return s.txnRepo.SaveTransaction(ctx, txn)
	})
	if err != nil {
		logger.Error("Failed to create transaction", slog.String("error", err.Error()), slog.String("project_id", req.ProjectID))
		return nil, err
	}

	logger.Info("Transaction created", slog.String("transaction_no", txn.TransactionNo), slog.String("direction", string(txn.Direction)))
	s.notify(ctx, actor, txn.ProjectID, "TRANSACTION_CREATED", fmt.Sprintf("Transaction %s created", txn.TransactionNo), map[string]any{
		"transactionID": txn.TransactionID,
		"amount":        txn.Amount,
	})
	return &txn, nil
}

func (s *ledgerService) ApproveTransaction(ctx context.Context, actor domain.Actor, transactionID string) (*domain.Transaction, error) {
	logger := s.GetLogger(ctx)

	var txn *domain.Transaction
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		txn, err = s.txnRepo.FindTransactionByIDForUpdate(ctx, actor.CompanyID, transactionID)
		if err != nil {
			return err
		}
		if txn.Status != domain.TxnPending {
			return fmt.Errorf("%w: cannot approve transaction in status %s", apperrors.ErrInvalidTransition, txn.Status)
		}

		now := time.Now().UTC()
		txn.Status = domain.TxnApproved
		txn.ApprovedBy = actor.UserID
		txn.Timeline = append(txn.Timeline, newTimelineEntry(string(domain.TxnApproved), actor, ""))
		touchAudit(&txn.AuditFields, actor, now)
		return s.txnRepo.UpdateTransaction(ctx, *txn)
	})
	if err != nil {
		logger.Warn("Failed to approve transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.notify(ctx, actor, txn.ProjectID, "TRANSACTION_APPROVED", fmt.Sprintf("Transaction %s approved", txn.TransactionNo), map[string]any{
		"transactionID": txn.TransactionID,
	})
	return txn, nil
}

func (s *ledgerService) SettleTransaction(ctx context.Context, actor domain.Actor, transactionID string, req dto.SettleTransactionRequest) (*domain.Transaction, error) {
	logger := s.GetLogger(ctx)

	var txn *domain.Transaction
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		txn, err = s.txnRepo.FindTransactionByIDForUpdate(ctx, actor.CompanyID, transactionID)
		if err != nil {
			return err
		}
		if txn.Status != domain.TxnApproved {
			return fmt.Errorf("%w: cannot settle transaction in status %s", apperrors.ErrInvalidTransition, txn.Status)
		}

		now := time.Now().UTC()
		txn.Status = domain.TxnSettled
		if req.PaymentMode != "" {
			txn.PaymentMode = req.PaymentMode
		}
		if req.ReferenceID != "" {
			txn.ReferenceID = req.ReferenceID
		}
		txn.Timeline = append(txn.Timeline, newTimelineEntry(string(domain.TxnSettled), actor, req.Note))
		touchAudit(&txn.AuditFields, actor, now)
		if err := s.txnRepo.UpdateTransaction(ctx, *txn); err != nil {
			return err
		}

		if txn.Direction == domain.Expense {
			if err := s.projectRepo.AdjustBudgetFigures(ctx, actor.CompanyID, txn.ProjectID, decimal.Zero, txn.Amount); err != nil {
				return err
			}
		}
		return s.applyToAccountBalance(ctx, actor.CompanyID, txn)
	})
	if err != nil {
		logger.Warn("Failed to settle transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, err
	}

	logger.Info("Transaction settled", slog.String("transaction_no", txn.TransactionNo), slog.String("amount", txn.Amount.String()))
	s.notify(ctx, actor, txn.ProjectID, "TRANSACTION_SETTLED", fmt.Sprintf("Transaction %s settled", txn.TransactionNo), map[string]any{
		"transactionID": txn.TransactionID,
		"amount":        txn.Amount,
	})
	if txn.Direction == domain.Expense {
		s.alertIfOverBudget(ctx, actor, s.projectRepo, txn.ProjectID)
	}
	return txn, nil
}

// applyToAccountBalance rolls a settled amount into the chart account mapped
// to the transaction category. A company without that account (custom chart)
// just skips the roll-up.
func (s *ledgerService) applyToAccountBalance(ctx context.Context, companyID string, txn *domain.Transaction) error {
	code, ok := categoryAccountCode[txn.Category]
	if !ok {
		return nil
	}
	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if txn.Direction == domain.Income {
		account.Balance = account.Balance.Add(txn.Amount)
	} else {
		account.Balance = account.Balance.Sub(txn.Amount)
	}
	return s.accountRepo.UpdateAccount(ctx, *account)
}

func (s *ledgerService) CancelTransaction(ctx context.Context, actor domain.Actor, transactionID string, reason string) (*domain.Transaction, error) {
	logger := s.GetLogger(ctx)

	var txn *domain.Transaction
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		txn, err = s.txnRepo.FindTransactionByIDForUpdate(ctx, actor.CompanyID, transactionID)
		if err != nil {
			return err
		}
		if txn.Status.IsTerminal() {
			return fmt.Errorf("%w: cannot cancel transaction in status %s", apperrors.ErrInvalidTransition, txn.Status)
		}

		txn.Status = domain.TxnCancelled
		txn.Timeline = append(txn.Timeline, newTimelineEntry(string(domain.TxnCancelled), actor, reason))
		touchAudit(&txn.AuditFields, actor, time.Now().UTC())
		return s.txnRepo.UpdateTransaction(ctx, *txn)
	})
	if err != nil {
		logger.Warn("Failed to cancel transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.notify(ctx, actor, txn.ProjectID, "TRANSACTION_CANCELLED", fmt.Sprintf("Transaction %s cancelled", txn.TransactionNo), map[string]any{
		"transactionID": txn.TransactionID,
	})
	return txn, nil
}

func (s *ledgerService) GetTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error) {
	return s.txnRepo.FindTransactionByID(ctx, companyID, transactionID)
}

func (s *ledgerService) ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	filter := portsrepo.TransactionFilter{
		Direction: params.Direction,
		Category:  params.Category,
		ProjectID: params.ProjectID,
		VendorID:  params.VendorID,
		Status:    params.Status,
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, companyID, filter, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

func (s *ledgerService) GetProjectFinancialSummary(ctx context.Context, companyID, projectID string) (*dto.ProjectFinancialSummary, error) {
	if _, err := s.projectRepo.FindProjectByID(ctx, companyID, projectID); err != nil {
		return nil, err
	}

	incomeByType, err := s.txnRepo.SumByProjectAndDirection(ctx, companyID, projectID, domain.Income)
	if err != nil {
		return nil, err
	}
	expenseByType, err := s.txnRepo.SumByProjectAndDirection(ctx, companyID, projectID, domain.Expense)
	if err != nil {
		return nil, err
	}

	totalIncome := decimal.Zero
	for _, amount := range incomeByType {
		totalIncome = totalIncome.Add(amount)
	}
	totalExpense := decimal.Zero
	for _, amount := range expenseByType {
		totalExpense = totalExpense.Add(amount)
	}

	return &dto.ProjectFinancialSummary{
		ProjectID:     projectID,
		TotalIncome:   totalIncome,
		TotalExpense:  totalExpense,
		NetPosition:   totalIncome.Sub(totalExpense),
		IncomeByType:  incomeByType,
		ExpenseByType: expenseByType,
	}, nil
}
