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

// approvalLevels is the depth of the fixed approval ladder attached on submit.
const approvalLevels = 2

// purchaseOrderService implements the purchase order workflow.
type purchaseOrderService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	poRepo      portsrepo.PurchaseOrderRepositoryFacade
	vendorRepo  portsrepo.VendorRepositoryFacade
	projectRepo portsrepo.ProjectRepositoryFacade
	stockRepo   portsrepo.StockRepositoryFacade
}

// NewPurchaseOrderService creates a new purchase order workflow service.
func NewPurchaseOrderService(
	txManager portsrepo.TransactionManager,
	poRepo portsrepo.PurchaseOrderRepositoryFacade,
	vendorRepo portsrepo.VendorRepositoryFacade,
	projectRepo portsrepo.ProjectRepositoryFacade,
	stockRepo portsrepo.StockRepositoryFacade,
	notifier portssvc.Notifier,
) portssvc.PurchaseOrderSvcFacade {
	return &purchaseOrderService{
		BaseService: BaseService{Notifier: notifier},
		txManager:   txManager,
		poRepo:      poRepo,
		vendorRepo:  vendorRepo,
		projectRepo: projectRepo,
		stockRepo:   stockRepo,
	}
}

var _ portssvc.PurchaseOrderSvcFacade = (*purchaseOrderService)(nil)

func (s *purchaseOrderService) GetPOByID(ctx context.Context, companyID, poID string) (*domain.PurchaseOrder, error) {
	return s.poRepo.FindPOByID(ctx, companyID, poID)
}

func (s *purchaseOrderService) ListPOs(ctx context.Context, companyID string, params dto.ListPurchaseOrdersParams) (*dto.ListPurchaseOrdersResponse, error) {
	filter := portsrepo.PurchaseOrderFilter{
		ProjectID: params.ProjectID,
		VendorID:  params.VendorID,
		Status:    params.Status,
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	orders, nextToken, err := s.poRepo.ListPOs(ctx, companyID, filter, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListPurchaseOrdersResponse{
		PurchaseOrders: dto.ToPurchaseOrderResponses(orders),
		NextToken:      nextToken,
	}, nil
}

// CreatePO opens a DRAFT order. The credit check happens here, against the
// vendor's outstanding payables plus this order's grand total; the vendor row
// is locked so a concurrent issue cannot slip past the limit.
func (s *purchaseOrderService) CreatePO(ctx context.Context, actor domain.Actor, req dto.CreatePurchaseOrderRequest) (*domain.PurchaseOrder, error) {
	logger := s.GetLogger(ctx)

	items := make([]domain.POItem, len(req.Items))
	totalAmount := decimal.Zero
	for i, item := range req.Items {
		if item.Quantity.LessThanOrEqual(decimal.Zero) || item.Rate.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: item quantity must be positive and rate non-negative", apperrors.ErrValidation)
		}
		lineTotal := item.Quantity.Mul(item.Rate)
		items[i] = domain.POItem{
			MaterialID: item.MaterialID,
			Quantity:   item.Quantity,
			Rate:       item.Rate,
			Total:      lineTotal,
		}
		totalAmount = totalAmount.Add(lineTotal)
	}

	var gst domain.GSTBreakup
	if req.GST != nil {
		gst = domain.GSTBreakup{
			CGST:        req.GST.CGST,
			SGST:        req.GST.SGST,
			IGST:        req.GST.IGST,
			VendorGSTIN: req.GST.VendorGSTIN,
		}
		gst.TotalGST = gst.Total()
	}
	grandTotal := totalAmount.Add(gst.TotalGST)

	now := time.Now().UTC()
	po := domain.PurchaseOrder{
		POID:                 uuid.NewString(),
		PONumber:             req.PONumber,
		CompanyID:            actor.CompanyID,
		VendorID:             req.VendorID,
		ProjectID:            req.ProjectID,
		Items:                items,
		TotalAmount:          totalAmount,
		GST:                  gst,
		GrandTotal:           grandTotal,
		Status:               domain.PODraft,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		DeliveryStatus:       domain.DeliveryPending,
		RequestedBy:          actor.UserID,
		Timeline:             []domain.TimelineEntry{newTimelineEntry(string(domain.PODraft), actor, "created")},
		AuditFields:          newAuditFields(actor, now),
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.projectRepo.FindProjectByID(ctx, actor.CompanyID, req.ProjectID); err != nil {
			return err
		}
		vendor, err := s.vendorRepo.FindVendorByIDForUpdate(ctx, actor.CompanyID, req.VendorID)
		if err != nil {
			return err
		}
		if vendor.IsBlacklisted {
			return fmt.Errorf("%w: vendor %s is blacklisted", apperrors.ErrValidation, vendor.Name)
		}
		if !vendor.CanAccommodate(grandTotal) {
			return fmt.Errorf("%w: outstanding %s plus order %s exceeds credit limit %s",
				apperrors.ErrCreditLimitExceeded, vendor.Financials.OutstandingPayables, grandTotal, vendor.Financials.CreditLimit)
		}
		return s.poRepo.SavePO(ctx, po)
	})
	if err != nil {
		logger.Warn("Failed to create purchase order", slog.String("error", err.Error()), slog.String("vendor_id", req.VendorID))
		return nil, err
	}

	logger.Info("Purchase order created", slog.String("po_number", po.PONumber), slog.String("grand_total", po.GrandTotal.String()))
	s.notify(ctx, actor, po.ProjectID, "PURCHASE_ORDER_CREATED", fmt.Sprintf("Purchase order %s created", po.PONumber), map[string]any{
		"poID":       po.POID,
		"grandTotal": po.GrandTotal,
	})
	return &po, nil
}

func (s *purchaseOrderService) SubmitPO(ctx context.Context, actor domain.Actor, poID string) (*domain.PurchaseOrder, error) {
	logger := s.GetLogger(ctx)

	var po *domain.PurchaseOrder
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.poRepo.FindPOByIDForUpdate(ctx, actor.CompanyID, poID)
		if err != nil {
			return err
		}
		if po.Status != domain.PODraft {
			return fmt.Errorf("%w: cannot submit order in status %s", apperrors.ErrInvalidTransition, po.Status)
		}

		po.Approvals = make([]domain.Approval, approvalLevels)
		for i := range po.Approvals {
			po.Approvals[i] = domain.Approval{Level: i + 1, Status: domain.ApprovalPending}
		}
		po.Status = domain.POPendingApproval
		po.Timeline = append(po.Timeline, newTimelineEntry(string(domain.POPendingApproval), actor, ""))
		touchAudit(&po.AuditFields, actor, time.Now().UTC())
		return s.poRepo.UpdatePO(ctx, *po)
	})
	if err != nil {
		logger.Warn("Failed to submit purchase order", slog.String("error", err.Error()), slog.String("po_id", poID))
		return nil, err
	}

	s.notify(ctx, actor, po.ProjectID, "PURCHASE_ORDER_SUBMITTED", fmt.Sprintf("Purchase order %s submitted for approval", po.PONumber), map[string]any{
		"poID": po.POID,
	})
	return po, nil
}

// ApprovePOLevel records one rung and auto-promotes to APPROVED when the
// whole ladder is approved.
func (s *purchaseOrderService) ApprovePOLevel(ctx context.Context, actor domain.Actor, poID string, req dto.ApprovePORequest) (*domain.PurchaseOrder, error) {
	logger := s.GetLogger(ctx)

	var po *domain.PurchaseOrder
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.poRepo.FindPOByIDForUpdate(ctx, actor.CompanyID, poID)
		if err != nil {
			return err
		}
		if po.Status != domain.POPendingApproval {
			return fmt.Errorf("%w: cannot approve order in status %s", apperrors.ErrInvalidTransition, po.Status)
		}

		idx := -1
		for i := range po.Approvals {
			if po.Approvals[i].Level == req.Level {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: approval level %d does not exist", apperrors.ErrValidation, req.Level)
		}
		if po.Approvals[idx].Status == domain.ApprovalApproved {
			return fmt.Errorf("%w: level %d is already approved", apperrors.ErrConflict, req.Level)
		}

		now := time.Now().UTC()
		po.Approvals[idx].Status = domain.ApprovalApproved
		po.Approvals[idx].Approver = actor.UserID
		po.Approvals[idx].Comments = req.Comments
		po.Approvals[idx].ApprovedAt = &now

		if po.AllApproved() {
			po.Status = domain.POApproved
			po.Timeline = append(po.Timeline, newTimelineEntry(string(domain.POApproved), actor, "all approval levels cleared"))
		}
		touchAudit(&po.AuditFields, actor, now)
		return s.poRepo.UpdatePO(ctx, *po)
	})
	if err != nil {
		logger.Warn("Failed to approve purchase order level", slog.String("error", err.Error()), slog.String("po_id", poID), slog.Int("level", req.Level))
		return nil, err
	}

	if po.Status == domain.POApproved {
		s.notify(ctx, actor, po.ProjectID, "PURCHASE_ORDER_APPROVED", fmt.Sprintf("Purchase order %s fully approved", po.PONumber), map[string]any{
			"poID": po.POID,
		})
	}
	return po, nil
}

func (s *purchaseOrderService) RejectPO(ctx context.Context, actor domain.Actor, poID string, comments string) (*domain.PurchaseOrder, error) {
	logger := s.GetLogger(ctx)

	var po *domain.PurchaseOrder
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.poRepo.FindPOByIDForUpdate(ctx, actor.CompanyID, poID)
		if err != nil {
			return err
		}
		if po.Status != domain.POPendingApproval {
			return fmt.Errorf("%w: cannot reject order in status %s", apperrors.ErrInvalidTransition, po.Status)
		}

		now := time.Now().UTC()
		for i := range po.Approvals {
			if po.Approvals[i].Status == domain.ApprovalPending {
				po.Approvals[i].Status = domain.ApprovalRejected
				po.Approvals[i].Approver = actor.UserID
				po.Approvals[i].Comments = comments
				po.Approvals[i].ApprovedAt = &now
				break
			}
		}
		po.Status = domain.POCancelled
		po.Timeline = append(po.Timeline, newTimelineEntry(string(domain.POCancelled), actor, comments))
		touchAudit(&po.AuditFields, actor, now)
		return s.poRepo.UpdatePO(ctx, *po)
	})
	if err != nil {
		logger.Warn("Failed to reject purchase order", slog.String("error", err.Error()), slog.String("po_id", poID))
		return nil, err
	}

	s.notify(ctx, actor, po.ProjectID, "PURCHASE_ORDER_REJECTED", fmt.Sprintf("Purchase order %s rejected", po.PONumber), map[string]any{
		"poID": po.POID,
	})
	return po, nil
}

// IssuePO commits the order to the vendor: the grand total joins the vendor's
// outstanding payables in the same transaction.
func (s *purchaseOrderService) IssuePO(ctx context.Context, actor domain.Actor, poID string) (*domain.PurchaseOrder, error) {
	logger := s.GetLogger(ctx)

	var po *domain.PurchaseOrder
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.poRepo.FindPOByIDForUpdate(ctx, actor.CompanyID, poID)
		if err != nil {
			return err
		}
		if po.Status != domain.POApproved {
			return fmt.Errorf("%w: cannot issue order in status %s", apperrors.ErrInvalidTransition, po.Status)
		}

		if _, err := s.vendorRepo.FindVendorByIDForUpdate(ctx, actor.CompanyID, po.VendorID); err != nil {
			return err
		}
		if err := s.vendorRepo.AdjustFinancials(ctx, actor.CompanyID, po.VendorID, po.GrandTotal, decimal.Zero); err != nil {
			return err
		}

		po.Status = domain.POIssued
		po.Timeline = append(po.Timeline, newTimelineEntry(string(domain.POIssued), actor, ""))
		touchAudit(&po.AuditFields, actor, time.Now().UTC())
		return s.poRepo.UpdatePO(ctx, *po)
	})
	if err != nil {
		logger.Warn("Failed to issue purchase order", slog.String("error", err.Error()), slog.String("po_id", poID))
		return nil, err
	}

	logger.Info("Purchase order issued", slog.String("po_number", po.PONumber))
	s.notify(ctx, actor, po.ProjectID, "PURCHASE_ORDER_ISSUED", fmt.Sprintf("Purchase order %s issued to vendor", po.PONumber), map[string]any{
		"poID": po.POID,
	})
	return po, nil
}

func (s *purchaseOrderService) MarkPOInTransit(ctx context.Context, actor domain.Actor, poID string) (*domain.PurchaseOrder, error) {
	var po *domain.PurchaseOrder
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.poRepo.FindPOByIDForUpdate(ctx, actor.CompanyID, poID)
		if err != nil {
			return err
		}
		if po.Status != domain.POIssued {
			return fmt.Errorf("%w: cannot mark order in status %s as in transit", apperrors.ErrInvalidTransition, po.Status)
		}

		po.Status = domain.POInTransit
		po.Timeline = append(po.Timeline, newTimelineEntry(string(domain.POInTransit), actor, ""))
		touchAudit(&po.AuditFields, actor, time.Now().UTC())
		return s.poRepo.UpdatePO(ctx, *po)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, actor, po.ProjectID, "PURCHASE_ORDER_IN_TRANSIT", fmt.Sprintf("Purchase order %s is in transit", po.PONumber), map[string]any{
		"poID": po.POID,
	})
	return po, nil
}

// RecordDelivery appends a goods receipt and feeds every delivered line into
// stock as a priced batch. Completeness is recomputed from scratch across all
// deliveries.
func (s *purchaseOrderService) RecordDelivery(ctx context.Context, actor domain.Actor, poID string, req dto.RecordDeliveryRequest) (*domain.PurchaseOrder, error) {
	logger := s.GetLogger(ctx)

	var po *domain.PurchaseOrder
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.poRepo.FindPOByIDForUpdate(ctx, actor.CompanyID, poID)
		if err != nil {
			return err
		}
		if po.Status != domain.POIssued && po.Status != domain.POInTransit {
			return fmt.Errorf("%w: cannot record delivery for order in status %s", apperrors.ErrInvalidTransition, po.Status)
		}

		rates := make(map[string]decimal.Decimal, len(po.Items))
		for _, line := range po.Items {
			rates[line.MaterialID] = line.Rate
		}

		now := time.Now().UTC()
		deliveryDate := req.DeliveryDate
		if deliveryDate.IsZero() {
			deliveryDate = now
		}

		delivered := make([]domain.DeliveredItem, len(req.Items))
		for i, item := range req.Items {
			if item.QuantityDelivered.LessThanOrEqual(decimal.Zero) {
				return fmt.Errorf("%w: delivered quantity must be positive", apperrors.ErrValidation)
			}
			rate, ordered := rates[item.MaterialID]
			if !ordered {
				return fmt.Errorf("%w: material %s is not on this order", apperrors.ErrValidation, item.MaterialID)
			}
			delivered[i] = domain.DeliveredItem{
				MaterialID:        item.MaterialID,
				QuantityDelivered: item.QuantityDelivered,
			}
			if err := s.receiveIntoStock(ctx, actor, po, item, rate, now); err != nil {
				return err
			}
		}

		po.PartialDeliveries = append(po.PartialDeliveries, domain.PartialDelivery{
			DeliveryDate: deliveryDate,
			Items:        delivered,
			ReceivedBy:   actor.UserID,
			Note:         req.Note,
		})

		if po.IsDeliveryComplete() {
			po.Status = domain.PODelivered
			po.DeliveryStatus = domain.DeliveryComplete
			po.ActualDeliveryDate = &deliveryDate
			po.Timeline = append(po.Timeline, newTimelineEntry(string(domain.PODelivered), actor, req.Note))
		} else {
			po.Status = domain.POInTransit
			po.DeliveryStatus = domain.DeliveryPartial
			po.Timeline = append(po.Timeline, newTimelineEntry(string(domain.POInTransit), actor, "partial delivery received"))
		}
		touchAudit(&po.AuditFields, actor, now)
		return s.poRepo.UpdatePO(ctx, *po)
	})
	if err != nil {
		logger.Warn("Failed to record delivery", slog.String("error", err.Error()), slog.String("po_id", poID))
		return nil, err
	}

	logger.Info("Delivery recorded", slog.String("po_number", po.PONumber), slog.String("delivery_status", string(po.DeliveryStatus)))
	s.notify(ctx, actor, po.ProjectID, "PURCHASE_ORDER_DELIVERY", fmt.Sprintf("Delivery recorded for purchase order %s", po.PONumber), map[string]any{
		"poID":           po.POID,
		"deliveryStatus": po.DeliveryStatus,
	})
	return po, nil
}

// receiveIntoStock applies a DELIVER adjustment for one received line,
// creating the stock record on first receipt.
func (s *purchaseOrderService) receiveIntoStock(ctx context.Context, actor domain.Actor, po *domain.PurchaseOrder, item dto.DeliveredItemRequest, rate decimal.Decimal, now time.Time) error {
	stock, err := s.stockRepo.FindStockByMaterialForUpdate(ctx, actor.CompanyID, item.MaterialID)
	created := false
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		stock = &domain.StockRecord{
			StockID:     uuid.NewString(),
			CompanyID:   actor.CompanyID,
			MaterialID:  item.MaterialID,
			AuditFields: newAuditFields(actor, now),
		}
		created = true
	}

	if err := stock.Apply(domain.AdjustDeliver, item.QuantityDelivered); err != nil {
		return err
	}
	stock.Batches = append(stock.Batches, domain.Batch{
		BatchNumber: item.BatchNumber,
		Quantity:    item.QuantityDelivered,
		UnitCost:    rate,
	})
	stock.Timeline = append(stock.Timeline, domain.StockTimelineEntry{
		Action:      string(domain.AdjustDeliver),
		Quantity:    item.QuantityDelivered,
		Date:        now,
		PerformedBy: actor.UserID,
		ProjectID:   po.ProjectID,
		Note:        "delivery against " + po.PONumber,
	})
	touchAudit(&stock.AuditFields, actor, now)

	if created {
		return s.stockRepo.SaveStock(ctx, *stock)
	}
	return s.stockRepo.UpdateStock(ctx, *stock)
}

// ClosePO force-closes from any non-terminal state.
func (s *purchaseOrderService) ClosePO(ctx context.Context, actor domain.Actor, poID string, note string) (*domain.PurchaseOrder, error) {
	var po *domain.PurchaseOrder
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.poRepo.FindPOByIDForUpdate(ctx, actor.CompanyID, poID)
		if err != nil {
			return err
		}
		if po.Status.IsTerminal() {
			return fmt.Errorf("%w: cannot close order in status %s", apperrors.ErrInvalidTransition, po.Status)
		}

		po.Status = domain.POClosed
		po.Timeline = append(po.Timeline, newTimelineEntry(string(domain.POClosed), actor, note))
		touchAudit(&po.AuditFields, actor, time.Now().UTC())
		return s.poRepo.UpdatePO(ctx, *po)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, actor, po.ProjectID, "PURCHASE_ORDER_CLOSED", fmt.Sprintf("Purchase order %s closed", po.PONumber), map[string]any{
		"poID": po.POID,
	})
	return po, nil
}

// CancelPO cancels before any goods receipt; an issued order's payables
// commitment is reversed.
func (s *purchaseOrderService) CancelPO(ctx context.Context, actor domain.Actor, poID string, note string) (*domain.PurchaseOrder, error) {
	logger := s.GetLogger(ctx)

	var po *domain.PurchaseOrder
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.poRepo.FindPOByIDForUpdate(ctx, actor.CompanyID, poID)
		if err != nil {
			return err
		}
		if po.Status.IsTerminal() {
			return fmt.Errorf("%w: cannot cancel order in status %s", apperrors.ErrInvalidTransition, po.Status)
		}
		if len(po.PartialDeliveries) > 0 {
			return fmt.Errorf("%w: order has recorded deliveries; close it instead", apperrors.ErrConflict)
		}

		if po.Status == domain.POIssued || po.Status == domain.POInTransit {
			if _, err := s.vendorRepo.FindVendorByIDForUpdate(ctx, actor.CompanyID, po.VendorID); err != nil {
				return err
			}
			if err := s.vendorRepo.AdjustFinancials(ctx, actor.CompanyID, po.VendorID, po.GrandTotal.Neg(), decimal.Zero); err != nil {
				return err
			}
		}

		po.Status = domain.POCancelled
		po.Timeline = append(po.Timeline, newTimelineEntry(string(domain.POCancelled), actor, note))
		touchAudit(&po.AuditFields, actor, time.Now().UTC())
		return s.poRepo.UpdatePO(ctx, *po)
	})
	if err != nil {
		logger.Warn("Failed to cancel purchase order", slog.String("error", err.Error()), slog.String("po_id", poID))
		return nil, err
	}

	s.notify(ctx, actor, po.ProjectID, "PURCHASE_ORDER_CANCELLED", fmt.Sprintf("Purchase order %s cancelled", po.PONumber), map[string]any{
		"poID": po.POID,
	})
	return po, nil
}
