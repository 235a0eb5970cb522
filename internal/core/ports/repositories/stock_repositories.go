package repositories

import (
	"context"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// StockReader defines read operations for stock records.
type StockReader interface {
	// FindStockByMaterial retrieves the company's stock record for a material.
	FindStockByMaterial(ctx context.Context, companyID, materialID string) (*domain.StockRecord, error)

	// ListStock retrieves every stock record of the company.
	ListStock(ctx context.Context, companyID string) ([]domain.StockRecord, error)

	// ListLowStock retrieves records whose available quantity is at or below
	// the reorder level.
	ListLowStock(ctx context.Context, companyID string) ([]domain.StockRecord, error)
}

// StockWriter defines write operations for stock records.
type StockWriter interface {
	// SaveStock persists a new stock record.
	SaveStock(ctx context.Context, record domain.StockRecord) error

	// UpdateStock replaces the counters, batches and timeline of a record.
	UpdateStock(ctx context.Context, record domain.StockRecord) error

	// FindStockByMaterialForUpdate retrieves a stock record and locks its row
	// for the duration of the surrounding database transaction, so concurrent
	// adjustments serialize.
	FindStockByMaterialForUpdate(ctx context.Context, companyID, materialID string) (*domain.StockRecord, error)
}

// StockRepositoryFacade combines all stock repository interfaces.
type StockRepositoryFacade interface {
	StockReader
	StockWriter
}
