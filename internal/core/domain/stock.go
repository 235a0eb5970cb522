package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitesutra/construction_erp_app/internal/apperrors"
)

// AdjustmentKind names a fixed pair of stock field deltas.
type AdjustmentKind string

const (
	AdjustAdd       AdjustmentKind = "ADD"       // total += qty, available += qty
	AdjustReserve   AdjustmentKind = "RESERVE"   // available -= qty, reserved += qty
	AdjustUnreserve AdjustmentKind = "UNRESERVE" // reserved -= qty, available += qty
	AdjustIssue     AdjustmentKind = "ISSUE"     // reserved -= qty, total -= qty
	AdjustWaste     AdjustmentKind = "WASTE"     // available -= qty, total -= qty, wastage += qty
	AdjustDamage    AdjustmentKind = "DAMAGE"    // available -= qty, total -= qty, damaged += qty
	AdjustDeliver   AdjustmentKind = "DELIVER"   // total += qty, available += qty (from a PO delivery)
)

// Batch is one received lot of a material.
type Batch struct {
	BatchNumber string          `json:"batchNumber"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	MfgDate     *time.Time      `json:"mfgDate,omitempty"`
	ExpiryDate  *time.Time      `json:"expiryDate,omitempty"`
}

// StockTimelineEntry records one applied adjustment.
type StockTimelineEntry struct {
	Action      string          `json:"action"`
	Quantity    decimal.Decimal `json:"quantity"`
	Date        time.Time       `json:"date"`
	PerformedBy string          `json:"performedBy"`
	ProjectID   string          `json:"projectID,omitempty"`
	Note        string          `json:"note,omitempty"`
}

// StockRecord tracks inventory for one material within one company.
// At rest, TotalStock == AvailableStock + ReservedStock. Damaged stock and
// wastage leave the total entirely; they are not part of that split.
type StockRecord struct {
	StockID        string               `json:"stockID"` // Primary key (UUID)
	CompanyID      string               `json:"companyID"`
	MaterialID     string               `json:"materialID"`
	TotalStock     decimal.Decimal      `json:"totalStock"`
	AvailableStock decimal.Decimal      `json:"availableStock"`
	ReservedStock  decimal.Decimal      `json:"reservedStock"`
	DamagedStock   decimal.Decimal      `json:"damagedStock"`
	Wastage        decimal.Decimal      `json:"wastage"`
	ReorderLevel   decimal.Decimal      `json:"reorderLevel"`
	Batches        []Batch              `json:"batches"`
	Timeline       []StockTimelineEntry `json:"timeline"`
	AuditFields
}

// Apply mutates the stock counters for one adjustment of qty units.
// It returns ErrInsufficientStock without touching the record if the
// adjustment would drive availableStock or reservedStock negative.
func (s *StockRecord) Apply(kind AdjustmentKind, qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: adjustment quantity must be positive", apperrors.ErrValidation)
	}

	switch kind {
	case AdjustAdd, AdjustDeliver:
		s.TotalStock = s.TotalStock.Add(qty)
		s.AvailableStock = s.AvailableStock.Add(qty)
	case AdjustReserve:
		if s.AvailableStock.LessThan(qty) {
			return fmt.Errorf("%w: %s available, %s requested", apperrors.ErrInsufficientStock, s.AvailableStock, qty)
		}
		s.AvailableStock = s.AvailableStock.Sub(qty)
		s.ReservedStock = s.ReservedStock.Add(qty)
	case AdjustUnreserve:
		if s.ReservedStock.LessThan(qty) {
			return fmt.Errorf("%w: %s reserved, %s to release", apperrors.ErrInsufficientStock, s.ReservedStock, qty)
		}
		s.ReservedStock = s.ReservedStock.Sub(qty)
		s.AvailableStock = s.AvailableStock.Add(qty)
	case AdjustIssue:
		if s.ReservedStock.LessThan(qty) {
			return fmt.Errorf("%w: %s reserved, %s to issue", apperrors.ErrInsufficientStock, s.ReservedStock, qty)
		}
		s.ReservedStock = s.ReservedStock.Sub(qty)
		s.TotalStock = s.TotalStock.Sub(qty)
	case AdjustWaste, AdjustDamage:
		if s.AvailableStock.LessThan(qty) {
			return fmt.Errorf("%w: %s available, %s to write off", apperrors.ErrInsufficientStock, s.AvailableStock, qty)
		}
		s.AvailableStock = s.AvailableStock.Sub(qty)
		s.TotalStock = s.TotalStock.Sub(qty)
		if kind == AdjustWaste {
			s.Wastage = s.Wastage.Add(qty)
		} else {
			s.DamagedStock = s.DamagedStock.Add(qty)
		}
	default:
		return fmt.Errorf("%w: unknown adjustment kind %q", apperrors.ErrValidation, kind)
	}
	return nil
}

// LatestUnitCost returns the unit cost of the most recently added batch,
// or zero when no batch information exists.
func (s *StockRecord) LatestUnitCost() decimal.Decimal {
	if len(s.Batches) == 0 {
		return decimal.Zero
	}
	return s.Batches[len(s.Batches)-1].UnitCost
}

// BelowReorderLevel reports whether available stock has reached the reorder threshold.
func (s *StockRecord) BelowReorderLevel() bool {
	return s.ReorderLevel.GreaterThan(decimal.Zero) && s.AvailableStock.LessThanOrEqual(s.ReorderLevel)
}
