package services

import (
	"context"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	"github.com/sitesutra/construction_erp_app/internal/dto"
)

// StockReaderSvc defines read operations for company stock.
type StockReaderSvc interface {
	// GetStockByMaterial retrieves the stock record for a material.
	GetStockByMaterial(ctx context.Context, companyID, materialID string) (*domain.StockRecord, error)

	// ListStock retrieves every stock record of the company.
	ListStock(ctx context.Context, companyID string) ([]domain.StockRecord, error)

	// ListLowStock retrieves records at or below their reorder level.
	ListLowStock(ctx context.Context, companyID string) ([]domain.StockRecord, error)
}

// StockWriterSvc defines write operations for company stock.
type StockWriterSvc interface {
	// AdjustStock applies a manual adjustment (ADD, WASTE, DAMAGE) to the
	// stock record, creating the record on first ADD. RESERVE, ISSUE and
	// DELIVER are driven by their workflows, not by this endpoint.
	AdjustStock(ctx context.Context, actor domain.Actor, req dto.AdjustStockRequest) (*domain.StockRecord, error)

	// SetReorderLevel updates the low-stock threshold for a material.
	SetReorderLevel(ctx context.Context, actor domain.Actor, materialID string, req dto.SetReorderLevelRequest) (*domain.StockRecord, error)
}

// StockSvcFacade combines all stock service interfaces.
type StockSvcFacade interface {
	StockReaderSvc
	StockWriterSvc
}
