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

// materialRequestService implements the material request workflow. Approval
// reserves stock, issue consumes the reservation and posts the auto-expense;
// each transition and its side effects commit in one database transaction.
type materialRequestService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	counterRepo  portsrepo.CounterRepository
	requestRepo  portsrepo.MaterialRequestRepositoryFacade
	materialRepo portsrepo.MaterialRepositoryFacade
	projectRepo  portsrepo.ProjectRepositoryFacade
	stockRepo    portsrepo.StockRepositoryFacade
	txnRepo      portsrepo.TransactionRepositoryFacade
}

// NewMaterialRequestService creates a new material request workflow service.
func NewMaterialRequestService(
	txManager portsrepo.TransactionManager,
	counterRepo portsrepo.CounterRepository,
	requestRepo portsrepo.MaterialRequestRepositoryFacade,
	materialRepo portsrepo.MaterialRepositoryFacade,
	projectRepo portsrepo.ProjectRepositoryFacade,
	stockRepo portsrepo.StockRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	notifier portssvc.Notifier,
) portssvc.MaterialRequestSvcFacade {
	return &materialRequestService{
		BaseService:  BaseService{Notifier: notifier},
		txManager:    txManager,
		counterRepo:  counterRepo,
		requestRepo:  requestRepo,
		materialRepo: materialRepo,
		projectRepo:  projectRepo,
		stockRepo:    stockRepo,
		txnRepo:      txnRepo,
	}
}

var _ portssvc.MaterialRequestSvcFacade = (*materialRequestService)(nil)

func (s *materialRequestService) GetRequestByID(ctx context.Context, companyID, requestID string) (*domain.MaterialRequest, error) {
	return s.requestRepo.FindRequestByID(ctx, companyID, requestID)
}

func (s *materialRequestService) ListRequests(ctx context.Context, companyID string, params dto.ListMaterialRequestsParams) (*dto.ListMaterialRequestsResponse, error) {
	filter := portsrepo.MaterialRequestFilter{
		ProjectID: params.ProjectID,
		Status:    params.Status,
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	requests, nextToken, err := s.requestRepo.ListRequests(ctx, companyID, filter, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListMaterialRequestsResponse{
		Requests:  dto.ToMaterialRequestResponses(requests),
		NextToken: nextToken,
	}, nil
}

func (s *materialRequestService) CreateRequest(ctx context.Context, actor domain.Actor, req dto.CreateMaterialRequestRequest) (*domain.MaterialRequest, error) {
	logger := s.GetLogger(ctx)

	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}
	request := domain.MaterialRequest{
		RequestID:   uuid.NewString(),
		CompanyID:   actor.CompanyID,
		MaterialID:  req.MaterialID,
		ProjectID:   req.ProjectID,
		Quantity:    req.Quantity,
		Status:      domain.RequestPending,
		Priority:    priority,
		Purpose:     req.Purpose,
		Requester:   actor.UserID,
		Timeline:    []domain.TimelineEntry{newTimelineEntry(string(domain.RequestPending), actor, "created")},
		AuditFields: newAuditFields(actor, now),
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.materialRepo.FindMaterialByID(ctx, actor.CompanyID, req.MaterialID); err != nil {
			return err
		}
		if _, err := s.projectRepo.FindProjectByID(ctx, actor.CompanyID, req.ProjectID); err != nil {
			return err
		}

		seq, err := s.counterRepo.Next(ctx, actor.CompanyID, monthScope("REQ", now))
		if err != nil {
			return fmt.Errorf("failed to allocate request number: %w", err)
		}
		request.RequestNo = docNumber("REQ", now, seq, 4)

		return s.requestRepo.SaveRequest(ctx, request)
	})
	if err != nil {
		logger.Warn("Failed to create material request", slog.String("error", err.Error()), slog.String("material_id", req.MaterialID))
		return nil, err
	}

	logger.Info("Material request created", slog.String("request_no", request.RequestNo), slog.String("project_id", request.ProjectID))
	s.notify(ctx, actor, request.ProjectID, "MATERIAL_REQUEST_CREATED", fmt.Sprintf("Material request %s created", request.RequestNo), map[string]any{
		"requestID": request.RequestID,
		"quantity":  request.Quantity,
	})
	return &request, nil
}

// ApproveRequest reserves stock for the requested quantity. The reservation
// and the status change commit together; an insufficient stock failure leaves
// the request PENDING and stock untouched.
func (s *materialRequestService) ApproveRequest(ctx context.Context, actor domain.Actor, requestID string, remarks string) (*domain.MaterialRequest, error) {
	logger := s.GetLogger(ctx)

	var request *domain.MaterialRequest
	var stock *domain.StockRecord
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.requestRepo.FindRequestByIDForUpdate(ctx, actor.CompanyID, requestID)
		if err != nil {
			return err
		}
		if request.Status != domain.RequestPending {
			return fmt.Errorf("%w: cannot approve request in status %s", apperrors.ErrInvalidTransition, request.Status)
		}

		stock, err = s.stockRepo.FindStockByMaterialForUpdate(ctx, actor.CompanyID, request.MaterialID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: no stock on hand for material %s", apperrors.ErrInsufficientStock, request.MaterialID)
			}
			return err
		}
		if err := stock.Apply(domain.AdjustReserve, request.Quantity); err != nil {
			return err
		}

		now := time.Now().UTC()
		stock.Timeline = append(stock.Timeline, domain.StockTimelineEntry{
			Action:      string(domain.AdjustReserve),
			Quantity:    request.Quantity,
			Date:        now,
			PerformedBy: actor.UserID,
			ProjectID:   request.ProjectID,
			Note:        "reserved for " + request.RequestNo,
		})
		touchAudit(&stock.AuditFields, actor, now)
		if err := s.stockRepo.UpdateStock(ctx, *stock); err != nil {
			return err
		}

		request.Status = domain.RequestApproved
		request.Approver = actor.UserID
		request.Remarks = remarks
		request.Timeline = append(request.Timeline, newTimelineEntry(string(domain.RequestApproved), actor, remarks))
		touchAudit(&request.AuditFields, actor, now)
		return s.requestRepo.UpdateRequest(ctx, *request)
	})
	if err != nil {
		logger.Warn("Failed to approve material request", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, err
	}

	logger.Info("Material request approved", slog.String("request_no", request.RequestNo))
	s.notify(ctx, actor, request.ProjectID, "MATERIAL_REQUEST_APPROVED", fmt.Sprintf("Material request %s approved", request.RequestNo), map[string]any{
		"requestID": request.RequestID,
	})
	if stock != nil && stock.BelowReorderLevel() {
		s.notify(ctx, actor, "", "LOW_STOCK_ALERT", fmt.Sprintf("Material %s is below reorder level", stock.MaterialID), map[string]any{
			"materialID":     stock.MaterialID,
			"availableStock": stock.AvailableStock,
		})
	}
	return request, nil
}

func (s *materialRequestService) RejectRequest(ctx context.Context, actor domain.Actor, requestID string, remarks string) (*domain.MaterialRequest, error) {
	logger := s.GetLogger(ctx)

	var request *domain.MaterialRequest
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.requestRepo.FindRequestByIDForUpdate(ctx, actor.CompanyID, requestID)
		if err != nil {
			return err
		}
		if request.Status != domain.RequestPending {
			return fmt.Errorf("%w: cannot reject request in status %s", apperrors.ErrInvalidTransition, request.Status)
		}

		request.Status = domain.RequestRejected
		request.Approver = actor.UserID
		request.Remarks = remarks
		request.Timeline = append(request.Timeline, newTimelineEntry(string(domain.RequestRejected), actor, remarks))
		touchAudit(&request.AuditFields, actor, time.Now().UTC())
		return s.requestRepo.UpdateRequest(ctx, *request)
	})
	if err != nil {
		logger.Warn("Failed to reject material request", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, err
	}

	s.notify(ctx, actor, request.ProjectID, "MATERIAL_REQUEST_REJECTED", fmt.Sprintf("Material request %s rejected", request.RequestNo), map[string]any{
		"requestID": request.RequestID,
	})
	return request, nil
}

// IssueRequest consumes the reservation and posts a settled material expense
// valued at the latest batch unit cost, zero when no batch carries a cost,
// so every issue leaves a ledger record. Issue, stock movement, ledger entry
// and project spend commit together.
func (s *materialRequestService) IssueRequest(ctx context.Context, actor domain.Actor, requestID string, remarks string) (*domain.MaterialRequest, error) {
	logger := s.GetLogger(ctx)

	var request *domain.MaterialRequest
	var cost decimal.Decimal
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.requestRepo.FindRequestByIDForUpdate(ctx, actor.CompanyID, requestID)
		if err != nil {
			return err
		}
		if request.Status != domain.RequestApproved {
			return fmt.Errorf("%w: cannot issue request in status %s", apperrors.ErrInvalidTransition, request.Status)
		}

		stock, err := s.stockRepo.FindStockByMaterialForUpdate(ctx, actor.CompanyID, request.MaterialID)
		if err != nil {
			return err
		}
		if err := stock.Apply(domain.AdjustIssue, request.Quantity); err != nil {
			return err
		}

		now := time.Now().UTC()
		stock.Timeline = append(stock.Timeline, domain.StockTimelineEntry{
			Action:      string(domain.AdjustIssue),
			Quantity:    request.Quantity,
			Date:        now,
			PerformedBy: actor.UserID,
			ProjectID:   request.ProjectID,
			Note:        "issued for " + request.RequestNo,
		})
		touchAudit(&stock.AuditFields, actor, now)
		if err := s.stockRepo.UpdateStock(ctx, *stock); err != nil {
			return err
		}

		request.Status = domain.RequestIssued
		request.Issuer = actor.UserID
		if remarks != "" {
			request.Remarks = remarks
		}
		request.Timeline = append(request.Timeline, newTimelineEntry(string(domain.RequestIssued), actor, remarks))
		touchAudit(&request.AuditFields, actor, now)
		if err := s.requestRepo.UpdateRequest(ctx, *request); err != nil {
			return err
		}

		cost = request.Quantity.Mul(stock.LatestUnitCost())
		if err := s.postIssueExpense(ctx, actor, request, cost, now); err != nil {
			return err
		}
		if cost.GreaterThan(decimal.Zero) {
			if err := s.projectRepo.AdjustBudgetFigures(ctx, actor.CompanyID, request.ProjectID, decimal.Zero, cost); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("Failed to issue material request", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, err
	}

	logger.Info("Material request issued", slog.String("request_no", request.RequestNo))
	s.notify(ctx, actor, request.ProjectID, "MATERIAL_REQUEST_ISSUED", fmt.Sprintf("Material request %s issued", request.RequestNo), map[string]any{
		"requestID": request.RequestID,
	})
	if cost.GreaterThan(decimal.Zero) {
		s.alertIfOverBudget(ctx, actor, s.projectRepo, request.ProjectID)
	}
	return request, nil
}

// postIssueExpense records the auto-generated, already-settled ledger entry
// for an issued request.
func (s *materialRequestService) postIssueExpense(ctx context.Context, actor domain.Actor, request *domain.MaterialRequest, cost decimal.Decimal, now time.Time) error {
	seq, err := s.counterRepo.Next(ctx, actor.CompanyID, monthScope("EXP", now))
	if err != nil {
		return fmt.Errorf("failed to allocate transaction number: %w", err)
	}
	txn := domain.Transaction{
		TransactionID:     uuid.NewString(),
		TransactionNo:     docNumber("EXP", now, seq, 5),
		CompanyID:         actor.CompanyID,
		Direction:         domain.Expense,
		Category:          domain.CategoryMaterial,
		Amount:            cost,
		ProjectID:         request.ProjectID,
		MaterialRequestID: request.RequestID,
		Description:       fmt.Sprintf("Material issue against %s", request.RequestNo),
		Status:            domain.TxnSettled,
		LedgerDate:        now,
		Timeline:          []domain.TimelineEntry{newTimelineEntry(string(domain.TxnSettled), actor, "auto-generated from material issue")},
		AuditFields:       newAuditFields(actor, now),
	}
	return s.txnRepo.SaveTransaction(ctx, txn)
}

// CancelRequest cancels from PENDING or APPROVED; cancelling an approved
// request releases its reservation.
func (s *materialRequestService) CancelRequest(ctx context.Context, actor domain.Actor, requestID string, remarks string) (*domain.MaterialRequest, error) {
	logger := s.GetLogger(ctx)

	var request *domain.MaterialRequest
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.requestRepo.FindRequestByIDForUpdate(ctx, actor.CompanyID, requestID)
		if err != nil {
			return err
		}
		if request.Status != domain.RequestPending && request.Status != domain.RequestApproved {
			return fmt.Errorf("%w: cannot cancel request in status %s", apperrors.ErrInvalidTransition, request.Status)
		}

		now := time.Now().UTC()
		if request.Status == domain.RequestApproved {
			stock, err := s.stockRepo.FindStockByMaterialForUpdate(ctx, actor.CompanyID, request.MaterialID)
			if err != nil {
				return err
			}
			if err := stock.Apply(domain.AdjustUnreserve, request.Quantity); err != nil {
				return err
			}
			stock.Timeline = append(stock.Timeline, domain.StockTimelineEntry{
				Action:      string(domain.AdjustUnreserve),
				Quantity:    request.Quantity,
				Date:        now,
				PerformedBy: actor.UserID,
				ProjectID:   request.ProjectID,
				Note:        "released for cancelled " + request.RequestNo,
			})
			touchAudit(&stock.AuditFields, actor, now)
			if err := s.stockRepo.UpdateStock(ctx, *stock); err != nil {
				return err
			}
		}

		request.Status = domain.RequestCancelled
		if remarks != "" {
			request.Remarks = remarks
		}
		request.Timeline = append(request.Timeline, newTimelineEntry(string(domain.RequestCancelled), actor, remarks))
		touchAudit(&request.AuditFields, actor, now)
		return s.requestRepo.UpdateRequest(ctx, *request)
	})
	if err != nil {
		logger.Warn("Failed to cancel material request", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, err
	}

	s.notify(ctx, actor, request.ProjectID, "MATERIAL_REQUEST_CANCELLED", fmt.Sprintf("Material request %s cancelled", request.RequestNo), map[string]any{
		"requestID": request.RequestID,
	})
	return request, nil
}
