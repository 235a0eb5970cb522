package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

func TestPurchaseOrder_AllApproved(t *testing.T) {
	po := domain.PurchaseOrder{}
	assert.False(t, po.AllApproved(), "order with no ladder is not approved")

	po.Approvals = []domain.Approval{
		{Level: 1, Status: domain.ApprovalApproved},
		{Level: 2, Status: domain.ApprovalPending},
	}
	assert.False(t, po.AllApproved())

	po.Approvals[1].Status = domain.ApprovalApproved
	assert.True(t, po.AllApproved())

	po.Approvals[0].Status = domain.ApprovalRejected
	assert.False(t, po.AllApproved())
}

func TestPurchaseOrder_IsDeliveryComplete(t *testing.T) {
	order := func() domain.PurchaseOrder {
		return domain.PurchaseOrder{
			Items: []domain.POItem{
				{MaterialID: "mat-cement", Quantity: dec("100")},
				{MaterialID: "mat-steel", Quantity: dec("50")},
			},
		}
	}

	t.Run("no deliveries yet", func(t *testing.T) {
		po := order()
		assert.False(t, po.IsDeliveryComplete())
	})

	t.Run("partial delivery of one line", func(t *testing.T) {
		po := order()
		po.PartialDeliveries = []domain.PartialDelivery{
			{Items: []domain.DeliveredItem{{MaterialID: "mat-cement", QuantityDelivered: dec("100")}}},
		}
		assert.False(t, po.IsDeliveryComplete())
	})

	t.Run("quantities accumulate across deliveries", func(t *testing.T) {
		po := order()
		po.PartialDeliveries = []domain.PartialDelivery{
			{Items: []domain.DeliveredItem{
				{MaterialID: "mat-cement", QuantityDelivered: dec("60")},
				{MaterialID: "mat-steel", QuantityDelivered: dec("50")},
			}},
			{Items: []domain.DeliveredItem{
				{MaterialID: "mat-cement", QuantityDelivered: dec("40")},
			}},
		}
		assert.True(t, po.IsDeliveryComplete())
	})

	t.Run("over delivery still counts as complete", func(t *testing.T) {
		po := order()
		po.PartialDeliveries = []domain.PartialDelivery{
			{Items: []domain.DeliveredItem{
				{MaterialID: "mat-cement", QuantityDelivered: dec("120")},
				{MaterialID: "mat-steel", QuantityDelivered: dec("50")},
			}},
		}
		assert.True(t, po.IsDeliveryComplete())
	})
}

func TestPurchaseOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, domain.POClosed.IsTerminal())
	assert.True(t, domain.POCancelled.IsTerminal())
	assert.False(t, domain.PODelivered.IsTerminal())
	assert.False(t, domain.PODraft.IsTerminal())
}

func TestVendor_CanAccommodate(t *testing.T) {
	vendor := domain.Vendor{
		Financials: domain.VendorFinancials{
			CreditLimit:         dec("100000"),
			OutstandingPayables: dec("80000"),
		},
	}

	assert.True(t, vendor.CanAccommodate(dec("20000")), "exactly at the limit is allowed")
	assert.False(t, vendor.CanAccommodate(dec("20001")))

	// A zero credit limit means unlimited.
	vendor.Financials.CreditLimit = dec("0")
	assert.True(t, vendor.CanAccommodate(dec("99999999")))
}
