package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitesutra/construction_erp_app/internal/apperrors"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newStock(total, available, reserved string) domain.StockRecord {
	return domain.StockRecord{
		TotalStock:     dec(total),
		AvailableStock: dec(available),
		ReservedStock:  dec(reserved),
	}
}

func TestStockRecord_Apply(t *testing.T) {
	tests := []struct {
		name          string
		stock         domain.StockRecord
		kind          domain.AdjustmentKind
		qty           string
		wantErr       error
		wantTotal     string
		wantAvailable string
		wantReserved  string
	}{
		{
			name:          "add grows total and available",
			stock:         newStock("10", "10", "0"),
			kind:          domain.AdjustAdd,
			qty:           "5",
			wantTotal:     "15",
			wantAvailable: "15",
			wantReserved:  "0",
		},
		{
			name:          "deliver behaves like add",
			stock:         newStock("0", "0", "0"),
			kind:          domain.AdjustDeliver,
			qty:           "100",
			wantTotal:     "100",
			wantAvailable: "100",
			wantReserved:  "0",
		},
		{
			name:          "reserve moves available to reserved",
			stock:         newStock("10", "10", "0"),
			kind:          domain.AdjustReserve,
			qty:           "4",
			wantTotal:     "10",
			wantAvailable: "6",
			wantReserved:  "4",
		},
		{
			name:    "reserve beyond available fails",
			stock:   newStock("10", "3", "7"),
			kind:    domain.AdjustReserve,
			qty:     "4",
			wantErr: apperrors.ErrInsufficientStock,
		},
		{
			name:          "unreserve returns reservation to available",
			stock:         newStock("10", "6", "4"),
			kind:          domain.AdjustUnreserve,
			qty:           "4",
			wantTotal:     "10",
			wantAvailable: "10",
			wantReserved:  "0",
		},
		{
			name:    "unreserve beyond reserved fails",
			stock:   newStock("10", "8", "2"),
			kind:    domain.AdjustUnreserve,
			qty:     "3",
			wantErr: apperrors.ErrInsufficientStock,
		},
		{
			name:          "issue consumes the reservation and the total",
			stock:         newStock("10", "6", "4"),
			kind:          domain.AdjustIssue,
			qty:           "4",
			wantTotal:     "6",
			wantAvailable: "6",
			wantReserved:  "0",
		},
		{
			name:    "issue beyond reserved fails",
			stock:   newStock("10", "10", "0"),
			kind:    domain.AdjustIssue,
			qty:     "1",
			wantErr: apperrors.ErrInsufficientStock,
		},
		{
			name:          "waste leaves the total entirely",
			stock:         newStock("10", "10", "0"),
			kind:          domain.AdjustWaste,
			qty:           "2",
			wantTotal:     "8",
			wantAvailable: "8",
			wantReserved:  "0",
		},
		{
			name:    "zero quantity rejected",
			stock:   newStock("10", "10", "0"),
			kind:    domain.AdjustAdd,
			qty:     "0",
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "unknown kind rejected",
			stock:   newStock("10", "10", "0"),
			kind:    domain.AdjustmentKind("TELEPORT"),
			qty:     "1",
			wantErr: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.stock
			err := tt.stock.Apply(tt.kind, dec(tt.qty))

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				// A failed adjustment must not touch the record.
				assert.True(t, before.TotalStock.Equal(tt.stock.TotalStock))
				assert.True(t, before.AvailableStock.Equal(tt.stock.AvailableStock))
				assert.True(t, before.ReservedStock.Equal(tt.stock.ReservedStock))
				return
			}

			require.NoError(t, err)
			assert.True(t, dec(tt.wantTotal).Equal(tt.stock.TotalStock), "total: got %s", tt.stock.TotalStock)
			assert.True(t, dec(tt.wantAvailable).Equal(tt.stock.AvailableStock), "available: got %s", tt.stock.AvailableStock)
			assert.True(t, dec(tt.wantReserved).Equal(tt.stock.ReservedStock), "reserved: got %s", tt.stock.ReservedStock)
		})
	}
}

func TestStockRecord_ApplyDamageTracksDamagedStock(t *testing.T) {
	stock := newStock("10", "10", "0")

	require.NoError(t, stock.Apply(domain.AdjustDamage, dec("3")))

	assert.True(t, dec("7").Equal(stock.TotalStock))
	assert.True(t, dec("7").Equal(stock.AvailableStock))
	assert.True(t, dec("3").Equal(stock.DamagedStock))
	assert.True(t, stock.Wastage.IsZero())
}

func TestStockRecord_BelowReorderLevel(t *testing.T) {
	stock := newStock("10", "5", "5")
	stock.ReorderLevel = dec("5")
	assert.True(t, stock.BelowReorderLevel())

	stock.AvailableStock = dec("6")
	assert.False(t, stock.BelowReorderLevel())

	// A zero threshold disables the alert.
	stock.ReorderLevel = decimal.Zero
	stock.AvailableStock = decimal.Zero
	assert.False(t, stock.BelowReorderLevel())
}

func TestStockRecord_LatestUnitCost(t *testing.T) {
	stock := domain.StockRecord{}
	assert.True(t, stock.LatestUnitCost().IsZero())

	stock.Batches = []domain.Batch{
		{BatchNumber: "B1", UnitCost: dec("350")},
		{BatchNumber: "B2", UnitCost: dec("375")},
	}
	assert.True(t, dec("375").Equal(stock.LatestUnitCost()))
}
