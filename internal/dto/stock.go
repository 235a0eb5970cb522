package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// AdjustStockRequest defines the data for a manual stock adjustment.
// Only ADD, WASTE and DAMAGE are accepted here; the other adjustment kinds
// belong to the request and purchase order workflows.
type AdjustStockRequest struct {
	MaterialID string                `json:"materialID" binding:"required"`
	Kind       domain.AdjustmentKind `json:"kind" binding:"required,oneof=ADD WASTE DAMAGE"`
	Quantity   decimal.Decimal       `json:"quantity" binding:"required"`
	ProjectID  string                `json:"projectID"`
	Note       string                `json:"note"`
	Batch      *BatchRequest         `json:"batch"` // Only meaningful for ADD
}

// BatchRequest describes the received lot attached to an ADD adjustment.
type BatchRequest struct {
	BatchNumber string          `json:"batchNumber"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	MfgDate     *time.Time      `json:"mfgDate"`
	ExpiryDate  *time.Time      `json:"expiryDate"`
}

// SetReorderLevelRequest updates the low-stock threshold for a material.
type SetReorderLevelRequest struct {
	ReorderLevel decimal.Decimal `json:"reorderLevel" binding:"required"`
}

// StockResponse defines the data returned for a stock record.
type StockResponse struct {
	StockID        string                      `json:"stockID"`
	MaterialID     string                      `json:"materialID"`
	TotalStock     decimal.Decimal             `json:"totalStock"`
	AvailableStock decimal.Decimal             `json:"availableStock"`
	ReservedStock  decimal.Decimal             `json:"reservedStock"`
	DamagedStock   decimal.Decimal             `json:"damagedStock"`
	Wastage        decimal.Decimal             `json:"wastage"`
	ReorderLevel   decimal.Decimal             `json:"reorderLevel"`
	LowStock       bool                        `json:"lowStock"`
	Batches        []domain.Batch              `json:"batches"`
	Timeline       []domain.StockTimelineEntry `json:"timeline"`
	LastUpdatedAt  time.Time                   `json:"lastUpdatedAt"`
}

// ToStockResponse converts a domain.StockRecord to its response form.
func ToStockResponse(s *domain.StockRecord) StockResponse {
	return StockResponse{
		StockID:        s.StockID,
		MaterialID:     s.MaterialID,
		TotalStock:     s.TotalStock,
		AvailableStock: s.AvailableStock,
		ReservedStock:  s.ReservedStock,
		DamagedStock:   s.DamagedStock,
		Wastage:        s.Wastage,
		ReorderLevel:   s.ReorderLevel,
		LowStock:       s.BelowReorderLevel(),
		Batches:        s.Batches,
		Timeline:       s.Timeline,
		LastUpdatedAt:  s.LastUpdatedAt,
	}
}

// ToStockResponses converts a slice of stock records.
func ToStockResponses(records []domain.StockRecord) []StockResponse {
	responses := make([]StockResponse, len(records))
	for i := range records {
		responses[i] = ToStockResponse(&records[i])
	}
	return responses
}
