package services

import (
	"context"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	"github.com/sitesutra/construction_erp_app/internal/dto"
)

// PurchaseOrderReaderSvc defines read operations for purchase orders.
type PurchaseOrderReaderSvc interface {
	// GetPOByID retrieves a specific purchase order by its ID.
	GetPOByID(ctx context.Context, companyID, poID string) (*domain.PurchaseOrder, error)

	// ListPOs retrieves a paginated, filtered list of purchase orders.
	ListPOs(ctx context.Context, companyID string, params dto.ListPurchaseOrdersParams) (*dto.ListPurchaseOrdersResponse, error)
}

// PurchaseOrderWriterSvc defines the purchase order workflow transitions.
type PurchaseOrderWriterSvc interface {
	// CreatePO opens a new order in DRAFT after checking the vendor's credit
	// limit against its outstanding payables plus this order's grand total.
	CreatePO(ctx context.Context, actor domain.Actor, req dto.CreatePurchaseOrderRequest) (*domain.PurchaseOrder, error)

	// SubmitPO moves DRAFT to PENDING_APPROVAL and attaches the approval
	// ladder derived from the order value.
	SubmitPO(ctx context.Context, actor domain.Actor, poID string) (*domain.PurchaseOrder, error)

	// ApprovePOLevel records one approval rung; when every rung is approved
	// the order auto-promotes to APPROVED.
	ApprovePOLevel(ctx context.Context, actor domain.Actor, poID string, req dto.ApprovePORequest) (*domain.PurchaseOrder, error)

	// RejectPO rejects the order at any approval rung, moving it to CANCELLED.
	RejectPO(ctx context.Context, actor domain.Actor, poID string, comments string) (*domain.PurchaseOrder, error)

	// IssuePO moves APPROVED to ISSUED and grows the vendor's outstanding
	// payables by the grand total in the same database transaction.
	IssuePO(ctx context.Context, actor domain.Actor, poID string) (*domain.PurchaseOrder, error)

	// MarkPOInTransit moves ISSUED to IN_TRANSIT.
	MarkPOInTransit(ctx context.Context, actor domain.Actor, poID string) (*domain.PurchaseOrder, error)

	// RecordDelivery appends a goods receipt, adds the delivered quantities
	// to site stock as priced batches, and moves the order to DELIVERED when
	// every line is fully received.
	RecordDelivery(ctx context.Context, actor domain.Actor, poID string, req dto.RecordDeliveryRequest) (*domain.PurchaseOrder, error)

	// ClosePO force-closes the order from any non-terminal state.
	ClosePO(ctx context.Context, actor domain.Actor, poID string, note string) (*domain.PurchaseOrder, error)

	// CancelPO cancels the order before any goods have been received,
	// reversing the payables commitment if the order had been issued.
	CancelPO(ctx context.Context, actor domain.Actor, poID string, note string) (*domain.PurchaseOrder, error)
}

// PurchaseOrderSvcFacade combines all purchase order service interfaces.
type PurchaseOrderSvcFacade interface {
	PurchaseOrderReaderSvc
	PurchaseOrderWriterSvc
}
