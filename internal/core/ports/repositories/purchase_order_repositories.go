package repositories

import (
	"context"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// PurchaseOrderReader defines read operations for purchase orders.
type PurchaseOrderReader interface {
	// FindPOByID retrieves a purchase order by its unique identifier.
	FindPOByID(ctx context.Context, companyID, poID string) (*domain.PurchaseOrder, error)

	// ListPOs retrieves a paginated list of purchase orders for a company,
	// optionally filtered.
	ListPOs(ctx context.Context, companyID string, filter PurchaseOrderFilter, limit int, nextToken *string) ([]domain.PurchaseOrder, *string, error)
}

// PurchaseOrderFilter narrows a purchase order listing.
type PurchaseOrderFilter struct {
	ProjectID *string
	VendorID  *string
	Status    *domain.PurchaseOrderStatus
}

// PurchaseOrderWriter defines write operations for purchase orders.
type PurchaseOrderWriter interface {
	// SavePO persists a new purchase order.
	SavePO(ctx context.Context, po domain.PurchaseOrder) error

	// UpdatePO replaces the mutable fields of an order (status, approvals,
	// deliveries, timeline).
	UpdatePO(ctx context.Context, po domain.PurchaseOrder) error

	// FindPOByIDForUpdate retrieves an order and locks its row for the
	// duration of the surrounding database transaction.
	FindPOByIDForUpdate(ctx context.Context, companyID, poID string) (*domain.PurchaseOrder, error)
}

// PurchaseOrderRepositoryFacade combines all purchase order repository interfaces.
type PurchaseOrderRepositoryFacade interface {
	PurchaseOrderReader
	PurchaseOrderWriter
}
