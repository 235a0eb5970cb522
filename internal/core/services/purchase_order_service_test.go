package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sitesutra/construction_erp_app/internal/apperrors"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/core/services"
	"github.com/sitesutra/construction_erp_app/internal/dto"
)

type PurchaseOrderServiceTestSuite struct {
	suite.Suite
	mockPOs      *MockPurchaseOrderRepository
	mockVendors  *MockVendorRepository
	mockProjects *MockProjectRepository
	mockStock    *MockStockRepository
	service      portssvc.PurchaseOrderSvcFacade

	actor domain.Actor
}

func (suite *PurchaseOrderServiceTestSuite) SetupTest() {
	suite.mockPOs = new(MockPurchaseOrderRepository)
	suite.mockVendors = new(MockVendorRepository)
	suite.mockProjects = new(MockProjectRepository)
	suite.mockStock = new(MockStockRepository)
	suite.service = services.NewPurchaseOrderService(
		fakeTxManager{},
		suite.mockPOs,
		suite.mockVendors,
		suite.mockProjects,
		suite.mockStock,
		portssvc.NoopNotifier{},
	)
	suite.actor = domain.Actor{
		UserID:    uuid.NewString(),
		Name:      "Procurement",
		CompanyID: uuid.NewString(),
		Role:      "procurement",
	}
}

func (suite *PurchaseOrderServiceTestSuite) order(status domain.PurchaseOrderStatus) *domain.PurchaseOrder {
	return &domain.PurchaseOrder{
		POID:      uuid.NewString(),
		PONumber:  "PO/2026/017",
		CompanyID: suite.actor.CompanyID,
		VendorID:  "vendor-1",
		ProjectID: "proj-1",
		Items: []domain.POItem{
			{MaterialID: "mat-cement", Quantity: dec("100"), Rate: dec("350"), Total: dec("35000")},
		},
		TotalAmount:    dec("35000"),
		GrandTotal:     dec("35000"),
		Status:         status,
		DeliveryStatus: domain.DeliveryPending,
	}
}

func (suite *PurchaseOrderServiceTestSuite) createRequest() dto.CreatePurchaseOrderRequest {
	return dto.CreatePurchaseOrderRequest{
		PONumber:  "PO/2026/017",
		VendorID:  "vendor-1",
		ProjectID: "proj-1",
		Items: []dto.POItemRequest{
			{MaterialID: "mat-cement", Quantity: dec("100"), Rate: dec("350")},
		},
		GST: &dto.GSTBreakupRequest{
			CGST: dec("3150"),
			SGST: dec("3150"),
		},
		ExpectedDeliveryDate: time.Now().UTC().Add(7 * 24 * time.Hour),
	}
}

func (suite *PurchaseOrderServiceTestSuite) TestCreatePO_Success() {
	ctx := context.Background()
	vendor := &domain.Vendor{
		VendorID:   "vendor-1",
		Name:       "Shree Traders",
		Financials: domain.VendorFinancials{CreditLimit: dec("100000")},
	}

	suite.mockProjects.On("FindProjectByID", ctx, suite.actor.CompanyID, "proj-1").Return(&domain.Project{ProjectID: "proj-1"}, nil).Once()
	suite.mockVendors.On("FindVendorByIDForUpdate", ctx, suite.actor.CompanyID, "vendor-1").Return(vendor, nil).Once()
	suite.mockPOs.On("SavePO", ctx, mock.MatchedBy(func(po domain.PurchaseOrder) bool {
		return po.Status == domain.PODraft &&
			po.TotalAmount.Equal(dec("35000")) &&
			po.GrandTotal.Equal(dec("41300")) &&
			po.GST.TotalGST.Equal(dec("6300")) &&
			po.DeliveryStatus == domain.DeliveryPending
	})).Return(nil).Once()

	po, err := suite.service.CreatePO(ctx, suite.actor, suite.createRequest())

	suite.Require().NoError(err)
	suite.Equal(domain.PODraft, po.Status)
	suite.True(po.GrandTotal.Equal(dec("41300")))
	suite.mockPOs.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderServiceTestSuite) TestCreatePO_CreditLimitExceeded() {
	ctx := context.Background()
	vendor := &domain.Vendor{
		VendorID: "vendor-1",
		Financials: domain.VendorFinancials{
			CreditLimit:         dec("50000"),
			OutstandingPayables: dec("20000"),
		},
	}

	suite.mockProjects.On("FindProjectByID", ctx, suite.actor.CompanyID, "proj-1").Return(&domain.Project{ProjectID: "proj-1"}, nil).Once()
	suite.mockVendors.On("FindVendorByIDForUpdate", ctx, suite.actor.CompanyID, "vendor-1").Return(vendor, nil).Once()

	_, err := suite.service.CreatePO(ctx, suite.actor, suite.createRequest())

	suite.Require().ErrorIs(err, apperrors.ErrCreditLimitExceeded)
	suite.mockPOs.AssertNotCalled(suite.T(), "SavePO", mock.Anything, mock.Anything)
}

func (suite *PurchaseOrderServiceTestSuite) TestCreatePO_BlacklistedVendor() {
	ctx := context.Background()
	vendor := &domain.Vendor{VendorID: "vendor-1", Name: "Shree Traders", IsBlacklisted: true}

	suite.mockProjects.On("FindProjectByID", ctx, suite.actor.CompanyID, "proj-1").Return(&domain.Project{ProjectID: "proj-1"}, nil).Once()
	suite.mockVendors.On("FindVendorByIDForUpdate", ctx, suite.actor.CompanyID, "vendor-1").Return(vendor, nil).Once()

	_, err := suite.service.CreatePO(ctx, suite.actor, suite.createRequest())

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockPOs.AssertNotCalled(suite.T(), "SavePO", mock.Anything, mock.Anything)
}

func (suite *PurchaseOrderServiceTestSuite) TestCreatePO_NonPositiveQuantity() {
	ctx := context.Background()
	req := suite.createRequest()
	req.Items[0].Quantity = decimal.Zero

	_, err := suite.service.CreatePO(ctx, suite.actor, req)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockVendors.AssertNotCalled(suite.T(), "FindVendorByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PurchaseOrderServiceTestSuite) TestSubmitPO_AttachesApprovalLadder() {
	ctx := context.Background()
	po := suite.order(domain.PODraft)

	suite.mockPOs.On("FindPOByIDForUpdate", ctx, suite.actor.CompanyID, po.POID).Return(po, nil).Once()
	suite.mockPOs.On("UpdatePO", ctx, mock.MatchedBy(func(updated domain.PurchaseOrder) bool {
		return updated.Status == domain.POPendingApproval &&
			len(updated.Approvals) == 2 &&
			updated.Approvals[0].Level == 1 &&
			updated.Approvals[0].Status == domain.ApprovalPending &&
			updated.Approvals[1].Level == 2
	})).Return(nil).Once()

	submitted, err := suite.service.SubmitPO(ctx, suite.actor, po.POID)

	suite.Require().NoError(err)
	suite.Equal(domain.POPendingApproval, submitted.Status)
	suite.mockPOs.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderServiceTestSuite) TestSubmitPO_WrongStatus() {
	ctx := context.Background()
	po := suite.order(domain.POIssued)

	suite.mockPOs.On("FindPOByIDForUpdate", ctx, suite.actor.CompanyID, po.POID).Return(po, nil).Once()

	_, err := suite.service.SubmitPO(ctx, suite.actor, po.POID)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *PurchaseOrderServiceTestSuite) TestApprovePOLevel_PartialLadderStaysPending() {
	ctx := context.Background()
	po := suite.order(domain.POPendingApproval)
	po.Approvals = []domain.Approval{
		{Level: 1, Status: domain.ApprovalPending},
		{Level: 2, Status: domain.ApprovalPending},
	}

	suite.mockPOs.On("FindPOByIDForUpdate", ctx, suite.actor.CompanyID, po.POID).Return(po, nil).Once()
	suite.mockPOs.On("UpdatePO", ctx, mock.MatchedBy(func(updated domain.PurchaseOrder) bool {
		return updated.Status == domain.POPendingApproval &&
			updated.Approvals[0].Status == domain.ApprovalApproved &&
			updated.Approvals[0].Approver == suite.actor.UserID &&
			updated.Approvals[1].Status == domain.ApprovalPending
	})).Return(nil).Once()

	approved, err := suite.service.ApprovePOLevel(ctx, suite.actor, po.POID, dto.ApprovePORequest{Level: 1, Comments: "rates verified"})

	suite.Require().NoError(err)
	suite.Equal(domain.POPendingApproval, approved.Status)
	suite.mockPOs.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderServiceTestSuite) TestApprovePOLevel_FinalLevelPromotes() {
	ctx := context.Background()
	po := suite.order(domain.POPendingApproval)
	po.Approvals = []domain.Approval{
		{Level: 1, Status: domain.ApprovalApproved},
		{Level: 2, Status: domain.ApprovalPending},
	}

	suite.mockPOs.On("FindPOByIDForUpdate", ctx, suite.actor.CompanyID, po.POID).Return(po, nil).Once()
	suite.mockPOs.On("UpdatePO", ctx, mock.MatchedBy(func(updated domain.PurchaseOrder) bool {
		return updated.Status == domain.POApproved
	})).Return(nil).Once()

	approved, err := suite.service.ApprovePOLevel(ctx, suite.actor, po.POID, dto.ApprovePORequest{Level: 2})

	suite.Require().NoError(err)
	suite.Equal(domain.POApproved, approved.Status)
}

func (suite *PurchaseOrderServiceTestSuite) TestApprovePOLevel_AlreadyApproved() {
	ctx := context.Background()
	po := suite.order(domain.POPendingApproval)
	po.Approvals = []domain.Approval{
		{Level: 1, Status: domain.ApprovalApproved},
		{Level: 2, Status: domain.ApprovalPending},
	}

	suite.mockPOs.On("FindPOByIDForUpdate", ctx, suite.actor.CompanyID, po.POID).Return(po, nil).Once()

	_, err := suite.service.ApprovePOLevel(ctx, suite.actor, po.POID, dto.ApprovePORequest{Level: 1})

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockPOs.AssertNotCalled(suite.T(), "UpdatePO", mock.Anything, mock.Anything)
}

func (suite *PurchaseOrderServiceTestSuite) TestApprovePOLevel_UnknownLevel() {
	ctx := context.Background()
	po := suite.order(domain.POPendingApproval)
	po.Approvals = []domain.Approval{{Level: 1, Status: domain.ApprovalPending}}

	suite.mockPOs.On("FindPOByIDForUpdate", ctx, suite.actor.CompanyID, po.POID).Return(po, nil).Once()

	_, err := suite.service.ApprovePOLevel(ctx, suite.actor, po.POID, dto.ApprovePORequest{Level: 5})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PurchaseOrderServiceTestSuite) TestIssuePO_CommitsPayables() {
	ctx := context.Background()
	po := suite.order(domain.POApproved)

	suite.mockPOs.On("FindPOByIDForUpdate", ctx, suite.actor.CompanyID, po.POID).Return(po, nil).Once()
	suite.mockVendors.On("FindVendorByIDForUpdate", ctx, suite.actor.CompanyID, "vendor-1").Return(&domain.Vendor{VendorID: "vendor-1"}, nil).Once()
	suite.mockVendors.On("AdjustFinancials", ctx, suite.actor.CompanyID, "vendor-1", dec("35000"), decimal.Zero).Return(nil).Once()
	suite.mockPOs.On("UpdatePO", ctx, mock.MatchedBy(func(updated domain.PurchaseOrder) bool {
		return updated.Status == domain.POIssued
	})).Return(nil).Once()

	issued, err := suite.service.IssuePO(ctx, suite.actor, po.POID)

	suite.Require().NoError(err)
	suite.Equal(domain.POIssued, issued.Status)
	suite.mockVendors.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderServiceTestSuite) TestIssuePO_RequiresApproved() {
	ctx := context.Background()
	po := suite.order(domain.PODraft)

	suite.mockPOs.On("FindPOByIDForUpdate", ctx, suite.actor.CompanyID, po.POID).Return(po, nil).Once()

	_, err := suite.service.IssuePO(ctx, suite.actor, po.POID)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockVendors.AssertNotCalled(suite.T(), "AdjustFinancials", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PurchaseOrderServiceTestSuite) TestRecordDelivery_CompleteReceiptClosesDelivery() {
	ctx := context.Background()
	po := suite.order(domain.POIssued)

	suite.mockPOs.On("FindPOByIDForUpdate", ctx, suite.actor.CompanyID, po.POID).Return(po, nil).Once()
	// First receipt for this material creates the stock record.
	suite.mockStock.On("FindStockByMaterialForUpdate", ctx, suite.actor.CompanyID, "mat-cement").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockStock.On("SaveStock", ctx, mock.MatchedBy(func(stock domain.StockRecord) bool {
		return stock.MaterialID == "mat-cement" &&
			stock.AvailableStock.Equal(dec("100")) &&
			len(stock.Batches) == 1 &&
			stock.Batches[0].UnitCost.Equal(dec("350"))
	})).Return(nil).Once()
	suite.mockPOs.On("UpdatePO", ctx, mock.MatchedBy(func(updated domain.PurchaseOrder) bool {
		return updated.Status == domain.PODelivered &&
			updated.DeliveryStatus == domain.DeliveryComplete &&
			updated.ActualDeliveryDate != nil &&
			len(updated.PartialDeliveries) == 1
	})).Return(nil).Once()

	delivered, err := suite.service.RecordDelivery(ctx, suite.actor, po.POID, dto.RecordDeliveryRequest{
		Items: []dto.DeliveredItemRequest{
			{MaterialID: "mat-cement", QuantityDelivered: dec("100"), BatchNumber: "BATCH-9"},
		},
		Note: "full truck",
	})

	suite.Require().NoError(err)
	suite.Equal(domain.PODelivered, delivered.Status)
	suite.mockStock.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderServiceTestSuite) TestRecordDelivery_PartialReceiptStaysInTransit() {
	ctx := context.Background()
	po := suite.order(domain.POIssued)
	existing := &domain.StockRecord{
		StockID:        uuid.NewString(),
		CompanyID:      suite.actor.CompanyID,
		MaterialID:     "mat-cement",
		TotalStock:     dec("10"),
		AvailableStock: dec("10"),
	}

	suite.mockPOs.On("FindPOByIDForUpdate", ctx, suite.actor.CompanyID, po.POID).Return(po, nil).Once()
	suite.mockStock.On("FindStockByMaterialForUpdate", ctx, suite.actor.CompanyID, "mat-cement").Return(existing, nil).Once()
	suite.mockStock.On("UpdateStock", ctx, mock.MatchedBy(func(stock domain.StockRecord) bool {
		return stock.AvailableStock.Equal(dec("50"))
	})).Return(nil).Once()
	suite.mockPOs.On("UpdatePO", ctx, mock.MatchedBy(func(updated domain.PurchaseOrder) bool {
		return updated.Status == domain.POInTransit &&
			updated.DeliveryStatus == domain.DeliveryPartial &&
			updated.ActualDeliveryDate == nil
	})).Return(nil).Once()

	delivered, err := suite.service.RecordDelivery(ctx, suite.actor, po.POID, dto.RecordDeliveryRequest{
		Items: []dto.DeliveredItemRequest{
			{MaterialID: "mat-cement", QuantityDelivered: dec("40")},
		},
	})

	suite.Require().NoError(err)
	suite.Equal(domain.DeliveryPartial, delivered.DeliveryStatus)
	suite.mockStock.AssertNotCalled(suite.T(), "SaveStock", mock.Anything, mock.Anything)
}

func (suite *PurchaseOrderServiceTestSuite) TestRecordDelivery_MaterialNotOnOrder() {
	ctx := context.Background()
	po := suite.order(domain.POIssued)

	suite.mockPOs.On("FindPOByIDForUpdate", ctx, suite.actor.CompanyID, po.POID).Return(po, nil).Once()

	_, err := suite.service.RecordDelivery(ctx, suite.actor, po.POID, dto.RecordDeliveryRequest{
		Items: []dto.DeliveredItemRequest{
			{MaterialID: "mat-paint", QuantityDelivered: dec("5")},
		},
	})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockPOs.AssertNotCalled(suite.T(), "UpdatePO", mock.Anything, mock.Anything)
}

func (suite *PurchaseOrderServiceTestSuite) TestCancelPO_IssuedReversesPayables() {
	ctx := context.Background()
	po := suite.order(domain.POIssued)

	suite.mockPOs.On("FindPOByIDForUpdate", ctx, suite.actor.CompanyID, po.POID).Return(po, nil).Once()
	suite.mockVendors.On("FindVendorByIDForUpdate", ctx, suite.actor.CompanyID, "vendor-1").Return(&domain.Vendor{VendorID: "vendor-1"}, nil).Once()
	suite.mockVendors.On("AdjustFinancials", ctx, suite.actor.CompanyID, "vendor-1", dec("-35000"), decimal.Zero).Return(nil).Once()
	suite.mockPOs.On("UpdatePO", ctx, mock.MatchedBy(func(updated domain.PurchaseOrder) bool {
		return updated.Status == domain.POCancelled
	})).Return(nil).Once()

	cancelled, err := suite.service.CancelPO(ctx, suite.actor, po.POID, "vendor defaulted")

	suite.Require().NoError(err)
	suite.Equal(domain.POCancelled, cancelled.Status)
	suite.mockVendors.AssertExpectations(suite.T())
}

func (suite *PurchaseOrderServiceTestSuite) TestCancelPO_DraftSkipsVendor() {
	ctx := context.Background()
	po := suite.order(domain.PODraft)

	suite.mockPOs.On("FindPOByIDForUpdate", ctx, suite.actor.CompanyID, po.POID).Return(po, nil).Once()
	suite.mockPOs.On("UpdatePO", ctx, mock.MatchedBy(func(updated domain.PurchaseOrder) bool {
		return updated.Status == domain.POCancelled
	})).Return(nil).Once()

	_, err := suite.service.CancelPO(ctx, suite.actor, po.POID, "")

	suite.Require().NoError(err)
	suite.mockVendors.AssertNotCalled(suite.T(), "AdjustFinancials", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PurchaseOrderServiceTestSuite) TestCancelPO_WithDeliveriesIsBlocked() {
	ctx := context.Background()
	po := suite.order(domain.POInTransit)
	po.PartialDeliveries = []domain.PartialDelivery{
		{Items: []domain.DeliveredItem{{MaterialID: "mat-cement", QuantityDelivered: dec("40")}}},
	}

	suite.mockPOs.On("FindPOByIDForUpdate", ctx, suite.actor.CompanyID, po.POID).Return(po, nil).Once()

	_, err := suite.service.CancelPO(ctx, suite.actor, po.POID, "")

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockVendors.AssertNotCalled(suite.T(), "AdjustFinancials", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PurchaseOrderServiceTestSuite) TestClosePO_Success() {
	ctx := context.Background()
	po := suite.order(domain.POInTransit)

	suite.mockPOs.On("FindPOByIDForUpdate", ctx, suite.actor.CompanyID, po.POID).Return(po, nil).Once()
	suite.mockPOs.On("UpdatePO", ctx, mock.MatchedBy(func(updated domain.PurchaseOrder) bool {
		return updated.Status == domain.POClosed
	})).Return(nil).Once()

	closed, err := suite.service.ClosePO(ctx, suite.actor, po.POID, "short closed")

	suite.Require().NoError(err)
	suite.Equal(domain.POClosed, closed.Status)
}

func (suite *PurchaseOrderServiceTestSuite) TestClosePO_TerminalIsFinal() {
	ctx := context.Background()
	po := suite.order(domain.POCancelled)

	suite.mockPOs.On("FindPOByIDForUpdate", ctx, suite.actor.CompanyID, po.POID).Return(po, nil).Once()

	_, err := suite.service.ClosePO(ctx, suite.actor, po.POID, "")

	suite.Require().ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockPOs.AssertNotCalled(suite.T(), "UpdatePO", mock.Anything, mock.Anything)
}

func TestPurchaseOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseOrderServiceTestSuite))
}
