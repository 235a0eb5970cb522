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

// paymentService implements the payment request workflow. Creation locks the
// amount against project budget; release converts the lock to spend, shrinks
// vendor payables and posts a settled expense, all in one transaction.
type paymentService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	counterRepo portsrepo.CounterRepository
	paymentRepo portsrepo.PaymentRequestRepositoryFacade
	vendorRepo  portsrepo.VendorRepositoryFacade
	projectRepo portsrepo.ProjectRepositoryFacade
	txnRepo     portsrepo.TransactionRepositoryFacade
}

// NewPaymentService creates a new payment request workflow service.
func NewPaymentService(
	txManager portsrepo.TransactionManager,
	counterRepo portsrepo.CounterRepository,
	paymentRepo portsrepo.PaymentRequestRepositoryFacade,
	vendorRepo portsrepo.VendorRepositoryFacade,
	projectRepo portsrepo.ProjectRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	notifier portssvc.Notifier,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		BaseService: BaseService{Notifier: notifier},
		txManager:   txManager,
		counterRepo: counterRepo,
		paymentRepo: paymentRepo,
		vendorRepo:  vendorRepo,
		projectRepo: projectRepo,
		txnRepo:     txnRepo,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

func (s *paymentService) GetPaymentByID(ctx context.Context, companyID, paymentID string) (*domain.PaymentRequest, error) {
	return s.paymentRepo.FindPaymentByID(ctx, companyID, paymentID)
}

func (s *paymentService) ListPayments(ctx context.Context, companyID string, params dto.ListPaymentRequestsParams) (*dto.ListPaymentRequestsResponse, error) {
	filter := portsrepo.PaymentRequestFilter{
		ProjectID: params.ProjectID,
		VendorID:  params.VendorID,
		Status:    params.Status,
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	payments, nextToken, err := s.paymentRepo.ListPayments(ctx, companyID, filter, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListPaymentRequestsResponse{
		Payments:  dto.ToPaymentRequestResponses(payments),
		NextToken: nextToken,
	}, nil
}

// CreatePayment locks the requested amount into the project budget before any
// approval happens.
func (s *paymentService) CreatePayment(ctx context.Context, actor domain.Actor, req dto.CreatePaymentRequestRequest) (*domain.PaymentRequest, error) {
	logger := s.GetLogger(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	category := req.Category
	if category == "" {
		category = domain.CategoryOverheads
	}
	payment := domain.PaymentRequest{
		PaymentID: uuid.NewString(),
		CompanyID: actor.CompanyID,
		VendorID:  req.VendorID,
		ProjectID: req.ProjectID,
		Amount:    req.Amount,
		Purpose:   req.Purpose,
		Category:  category,
		Status:    domain.PaymentPending,
		Retention: domain.RetentionLedger{
			Percentage: req.RetentionPercentage,
			Amount:     req.Amount.Mul(req.RetentionPercentage).Div(decimal.NewFromInt(100)),
		},
		Invoice: domain.InvoiceDetails{
			InvoiceNumber: req.InvoiceNumber,
			InvoiceDate:   req.InvoiceDate,
			InvoiceURL:    req.InvoiceURL,
		},
		RequestedBy: actor.UserID,
		Timeline:    []domain.TimelineEntry{newTimelineEntry(string(domain.PaymentPending), actor, "created")},
		AuditFields: newAuditFields(actor, now),
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		vendor, err := s.vendorRepo.FindVendorByID(ctx, actor.CompanyID, req.VendorID)
		if err != nil {
			return err
		}
		payment.Advance = domain.AdvanceLedger{
			AdvancePaid:    vendor.Financials.AdvancePaid,
			AdjustedAmount: req.AdvanceAdjustment,
			Balance:        vendor.Financials.AdvancePaid.Sub(req.AdvanceAdjustment),
		}

		if _, err := s.projectRepo.FindProjectByIDForUpdate(ctx, actor.CompanyID, req.ProjectID); err != nil {
			return err
		}
		if err := s.projectRepo.AdjustBudgetFigures(ctx, actor.CompanyID, req.ProjectID, req.Amount, decimal.Zero); err != nil {
			return err
		}

		seq, err := s.counterRepo.Next(ctx, actor.CompanyID, monthScope("PAY", now))
		if err != nil {
			return fmt.Errorf("failed to allocate payment number: %w", err)
		}
		payment.RequestNo = docNumber("PAY", now, seq, 5)

		return s.paymentRepo.SavePayment(ctx, payment)
	})
	if err != nil {
		logger.Warn("Failed to create payment request", slog.String("error", err.Error()), slog.String("vendor_id", req.VendorID))
		return nil, err
	}

	logger.Info("Payment request created", slog.String("request_no", payment.RequestNo), slog.String("amount", payment.Amount.String()))
	s.notify(ctx, actor, payment.ProjectID, "PAYMENT_REQUEST_CREATED", fmt.Sprintf("Payment request %s created", payment.RequestNo), map[string]any{
		"paymentID": payment.PaymentID,
		"amount":    payment.Amount,
	})
	return &payment, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, actor domain.Actor, paymentID string, note string) (*domain.PaymentRequest, error) {
	logger := s.GetLogger(ctx)

	var payment *domain.PaymentRequest
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.paymentRepo.FindPaymentByIDForUpdate(ctx, actor.CompanyID, paymentID)
		if err != nil {
			return err
		}
		if payment.Status != domain.PaymentPending {
			return fmt.Errorf("%w: cannot verify payment in status %s", apperrors.ErrInvalidTransition, payment.Status)
		}

		payment.Status = domain.PaymentVerified
		payment.VerifiedBy = actor.UserID
		payment.Timeline = append(payment.Timeline, newTimelineEntry(string(domain.PaymentVerified), actor, note))
		touchAudit(&payment.AuditFields, actor, time.Now().UTC())
		return s.paymentRepo.UpdatePayment(ctx, *payment)
	})
	if err != nil {
		logger.Warn("Failed to verify payment request", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, err
	}

	s.notify(ctx, actor, payment.ProjectID, "PAYMENT_REQUEST_VERIFIED", fmt.Sprintf("Payment request %s verified", payment.RequestNo), map[string]any{
		"paymentID": payment.PaymentID,
	})
	return payment, nil
}

// ReleasePayment pays out a verified request: the budget lock converts to
// actual spend, the vendor's payables shrink, and a settled expense entry is
// posted, all atomically.
func (s *paymentService) ReleasePayment(ctx context.Context, actor domain.Actor, paymentID string, req dto.ReleasePaymentRequest) (*domain.PaymentRequest, error) {
	logger := s.GetLogger(ctx)

	var payment *domain.PaymentRequest
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.paymentRepo.FindPaymentByIDForUpdate(ctx, actor.CompanyID, paymentID)
		if err != nil {
			return err
		}
		if payment.Status != domain.PaymentVerified {
			return fmt.Errorf("%w: cannot release payment in status %s", apperrors.ErrInvalidTransition, payment.Status)
		}

		now := time.Now().UTC()
		if _, err := s.projectRepo.FindProjectByIDForUpdate(ctx, actor.CompanyID, payment.ProjectID); err != nil {
			return err
		}
		if err := s.projectRepo.AdjustBudgetFigures(ctx, actor.CompanyID, payment.ProjectID, payment.Amount.Neg(), payment.Amount); err != nil {
			return err
		}

		if _, err := s.vendorRepo.FindVendorByIDForUpdate(ctx, actor.CompanyID, payment.VendorID); err != nil {
			return err
		}
		if err := s.vendorRepo.AdjustFinancials(ctx, actor.CompanyID, payment.VendorID, payment.Amount.Neg(), payment.Advance.AdjustedAmount.Neg()); err != nil {
			return err
		}

		if err := s.postReleaseExpense(ctx, actor, payment, req, now); err != nil {
			return err
		}

		payment.Status = domain.PaymentReleased
		payment.ReleasedBy = actor.UserID
		payment.Payment = domain.PaymentDetails{
			Mode:        req.Mode,
			ReferenceID: req.ReferenceID,
			PaidDate:    &now,
		}
		payment.Timeline = append(payment.Timeline, newTimelineEntry(string(domain.PaymentReleased), actor, req.Note))
		touchAudit(&payment.AuditFields, actor, now)
		return s.paymentRepo.UpdatePayment(ctx, *payment)
	})
	if err != nil {
		logger.Warn("Failed to release payment request", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, err
	}

	logger.Info("Payment released", slog.String("request_no", payment.RequestNo), slog.String("amount", payment.Amount.String()))
	s.notify(ctx, actor, payment.ProjectID, "PAYMENT_REQUEST_RELEASED", fmt.Sprintf("Payment request %s released", payment.RequestNo), map[string]any{
		"paymentID": payment.PaymentID,
		"amount":    payment.Amount,
	})
	s.alertIfOverBudget(ctx, actor, s.projectRepo, payment.ProjectID)
	return payment, nil
}

// postReleaseExpense records the settled ledger entry that mirrors a released
// payment.
func (s *paymentService) postReleaseExpense(ctx context.Context, actor domain.Actor, payment *domain.PaymentRequest, req dto.ReleasePaymentRequest, now time.Time) error {
	seq, err := s.counterRepo.Next(ctx, actor.CompanyID, monthScope("EXP", now))
	if err != nil {
		return fmt.Errorf("failed to allocate transaction number: %w", err)
	}
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		TransactionNo: docNumber("EXP", now, seq, 5),
		CompanyID:     actor.CompanyID,
		Direction:     domain.Expense,
		Category:      payment.Category,
		Amount:        payment.Amount,
		ProjectID:     payment.ProjectID,
		VendorID:      payment.VendorID,
		PaymentMode:   req.Mode,
		ReferenceID:   req.ReferenceID,
		Description:   fmt.Sprintf("Payment release against %s", payment.RequestNo),
		Status:        domain.TxnSettled,
		LedgerDate:    now,
		Timeline:      []domain.TimelineEntry{newTimelineEntry(string(domain.TxnSettled), actor, "auto-generated from payment release")},
		AuditFields:   newAuditFields(actor, now),
	}
	return s.txnRepo.SaveTransaction(ctx, txn)
}

// RejectPayment releases the budget lock without any spend.
func (s *paymentService) RejectPayment(ctx context.Context, actor domain.Actor, paymentID string, note string) (*domain.PaymentRequest, error) {
	logger := s.GetLogger(ctx)

	var payment *domain.PaymentRequest
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.paymentRepo.FindPaymentByIDForUpdate(ctx, actor.CompanyID, paymentID)
		if err != nil {
			return err
		}
		if payment.Status != domain.PaymentPending && payment.Status != domain.PaymentVerified {
			return fmt.Errorf("%w: cannot reject payment in status %s", apperrors.ErrInvalidTransition, payment.Status)
		}

		if _, err := s.projectRepo.FindProjectByIDForUpdate(ctx, actor.CompanyID, payment.ProjectID); err != nil {
			return err
		}
		if err := s.projectRepo.AdjustBudgetFigures(ctx, actor.CompanyID, payment.ProjectID, payment.Amount.Neg(), decimal.Zero); err != nil {
			return err
		}

		payment.Status = domain.PaymentRejected
		payment.Timeline = append(payment.Timeline, newTimelineEntry(string(domain.PaymentRejected), actor, note))
		touchAudit(&payment.AuditFields, actor, time.Now().UTC())
		return s.paymentRepo.UpdatePayment(ctx, *payment)
	})
	if err != nil {
		logger.Warn("Failed to reject payment request", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, err
	}

	s.notify(ctx, actor, payment.ProjectID, "PAYMENT_REQUEST_REJECTED", fmt.Sprintf("Payment request %s rejected", payment.RequestNo), map[string]any{
		"paymentID": payment.PaymentID,
	})
	return payment, nil
}
