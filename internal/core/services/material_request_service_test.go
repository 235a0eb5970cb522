package services_test

import (
	"context"
	"testing"

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

type MaterialRequestServiceTestSuite struct {
	suite.Suite
	mockCounter  *MockCounterRepository
	mockRequests *MockMaterialRequestRepository
	mockMaterial *MockMaterialRepository
	mockProjects *MockProjectRepository
	mockStock    *MockStockRepository
	mockTxns     *MockTransactionRepository
	service      portssvc.MaterialRequestSvcFacade

	actor domain.Actor
}

func (suite *MaterialRequestServiceTestSuite) SetupTest() {
	suite.mockCounter = new(MockCounterRepository)
	suite.mockRequests = new(MockMaterialRequestRepository)
	suite.mockMaterial = new(MockMaterialRepository)
	suite.mockProjects = new(MockProjectRepository)
	suite.mockStock = new(MockStockRepository)
	suite.mockTxns = new(MockTransactionRepository)
	suite.service = services.NewMaterialRequestService(
		fakeTxManager{},
		suite.mockCounter,
		suite.mockRequests,
		suite.mockMaterial,
		suite.mockProjects,
		suite.mockStock,
		suite.mockTxns,
		portssvc.NoopNotifier{},
	)
	suite.actor = domain.Actor{
		UserID:    uuid.NewString(),
		Name:      "Site Engineer",
		CompanyID: uuid.NewString(),
		Role:      "engineer",
	}
}

func (suite *MaterialRequestServiceTestSuite) pendingRequest(qty string) *domain.MaterialRequest {
	return &domain.MaterialRequest{
		RequestID:  uuid.NewString(),
		RequestNo:  "REQ-2608-0001",
		CompanyID:  suite.actor.CompanyID,
		MaterialID: "mat-cement",
		ProjectID:  "proj-1",
		Quantity:   dec(qty),
		Status:     domain.RequestPending,
	}
}

func (suite *MaterialRequestServiceTestSuite) TestCreateRequest_Success() {
	ctx := context.Background()
	req := dto.CreateMaterialRequestRequest{
		MaterialID: "mat-cement",
		ProjectID:  "proj-1",
		Quantity:   dec("50"),
		Purpose:    "slab casting",
	}

	suite.mockMaterial.On("FindMaterialByID", ctx, suite.actor.CompanyID, "mat-cement").Return(&domain.MaterialMaster{MaterialID: "mat-cement"}, nil).Once()
	suite.mockProjects.On("FindProjectByID", ctx, suite.actor.CompanyID, "proj-1").Return(&domain.Project{ProjectID: "proj-1"}, nil).Once()
	suite.mockCounter.On("Next", ctx, suite.actor.CompanyID, mock.AnythingOfType("string")).Return(int64(7), nil).Once()
	suite.mockRequests.On("SaveRequest", ctx, mock.AnythingOfType("domain.MaterialRequest")).Return(nil).Once()

	request, err := suite.service.CreateRequest(ctx, suite.actor, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(request)
	suite.NotEmpty(request.RequestID)
	suite.NotEmpty(request.RequestNo)
	suite.Equal(domain.RequestPending, request.Status)
	suite.Equal(domain.PriorityNormal, request.Priority)
	suite.Equal(suite.actor.UserID, request.Requester)
	suite.mockRequests.AssertExpectations(suite.T())
	suite.mockCounter.AssertExpectations(suite.T())
}

func (suite *MaterialRequestServiceTestSuite) TestCreateRequest_NonPositiveQuantity() {
	ctx := context.Background()
	req := dto.CreateMaterialRequestRequest{
		MaterialID: "mat-cement",
		ProjectID:  "proj-1",
		Quantity:   decimal.Zero,
	}

	request, err := suite.service.CreateRequest(ctx, suite.actor, req)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(request)
	suite.mockRequests.AssertNotCalled(suite.T(), "SaveRequest", mock.Anything, mock.Anything)
}

func (suite *MaterialRequestServiceTestSuite) TestApproveRequest_ReservesStock() {
	ctx := context.Background()
	request := suite.pendingRequest("40")
	stock := &domain.StockRecord{
		CompanyID:      suite.actor.CompanyID,
		MaterialID:     "mat-cement",
		TotalStock:     dec("100"),
		AvailableStock: dec("100"),
	}

	suite.mockRequests.On("FindRequestByIDForUpdate", ctx, suite.actor.CompanyID, request.RequestID).Return(request, nil).Once()
	suite.mockStock.On("FindStockByMaterialForUpdate", ctx, suite.actor.CompanyID, "mat-cement").Return(stock, nil).Once()
	suite.mockStock.On("UpdateStock", ctx, mock.MatchedBy(func(s domain.StockRecord) bool {
		return s.AvailableStock.Equal(dec("60")) && s.ReservedStock.Equal(dec("40"))
	})).Return(nil).Once()
	suite.mockRequests.On("UpdateRequest", ctx, mock.MatchedBy(func(r domain.MaterialRequest) bool {
		return r.Status == domain.RequestApproved && r.Approver == suite.actor.UserID
	})).Return(nil).Once()

	approved, err := suite.service.ApproveRequest(ctx, suite.actor, request.RequestID, "ok")

	suite.Require().NoError(err)
	suite.Equal(domain.RequestApproved, approved.Status)
	suite.mockStock.AssertExpectations(suite.T())
	suite.mockRequests.AssertExpectations(suite.T())
}

func (suite *MaterialRequestServiceTestSuite) TestApproveRequest_InsufficientStockLeavesPending() {
	ctx := context.Background()
	request := suite.pendingRequest("500")
	stock := &domain.StockRecord{
		CompanyID:      suite.actor.CompanyID,
		MaterialID:     "mat-cement",
		TotalStock:     dec("100"),
		AvailableStock: dec("100"),
	}

	suite.mockRequests.On("FindRequestByIDForUpdate", ctx, suite.actor.CompanyID, request.RequestID).Return(request, nil).Once()
	suite.mockStock.On("FindStockByMaterialForUpdate", ctx, suite.actor.CompanyID, "mat-cement").Return(stock, nil).Once()

	approved, err := suite.service.ApproveRequest(ctx, suite.actor, request.RequestID, "")

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientStock)
	suite.Nil(approved)
	suite.mockStock.AssertNotCalled(suite.T(), "UpdateStock", mock.Anything, mock.Anything)
	suite.mockRequests.AssertNotCalled(suite.T(), "UpdateRequest", mock.Anything, mock.Anything)
}

func (suite *MaterialRequestServiceTestSuite) TestApproveRequest_NoStockRecord() {
	ctx := context.Background()
	request := suite.pendingRequest("10")

	suite.mockRequests.On("FindRequestByIDForUpdate", ctx, suite.actor.CompanyID, request.RequestID).Return(request, nil).Once()
	suite.mockStock.On("FindStockByMaterialForUpdate", ctx, suite.actor.CompanyID, "mat-cement").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ApproveRequest(ctx, suite.actor, request.RequestID, "")

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientStock)
}

func (suite *MaterialRequestServiceTestSuite) TestApproveRequest_WrongStatus() {
	ctx := context.Background()
	request := suite.pendingRequest("10")
	request.Status = domain.RequestIssued

	suite.mockRequests.On("FindRequestByIDForUpdate", ctx, suite.actor.CompanyID, request.RequestID).Return(request, nil).Once()

	_, err := suite.service.ApproveRequest(ctx, suite.actor, request.RequestID, "")

	suite.Require().ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockStock.AssertNotCalled(suite.T(), "FindStockByMaterialForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MaterialRequestServiceTestSuite) TestIssueRequest_ConsumesReservationAndPostsExpense() {
	ctx := context.Background()
	request := suite.pendingRequest("40")
	request.Status = domain.RequestApproved
	stock := &domain.StockRecord{
		CompanyID:      suite.actor.CompanyID,
		MaterialID:     "mat-cement",
		TotalStock:     dec("100"),
		AvailableStock: dec("60"),
		ReservedStock:  dec("40"),
		Batches:        []domain.Batch{{BatchNumber: "B1", Quantity: dec("100"), UnitCost: dec("350")}},
	}

	suite.mockRequests.On("FindRequestByIDForUpdate", ctx, suite.actor.CompanyID, request.RequestID).Return(request, nil).Once()
	suite.mockStock.On("FindStockByMaterialForUpdate", ctx, suite.actor.CompanyID, "mat-cement").Return(stock, nil).Once()
	suite.mockStock.On("UpdateStock", ctx, mock.MatchedBy(func(s domain.StockRecord) bool {
		return s.TotalStock.Equal(dec("60")) && s.ReservedStock.IsZero()
	})).Return(nil).Once()
	suite.mockRequests.On("UpdateRequest", ctx, mock.MatchedBy(func(r domain.MaterialRequest) bool {
		return r.Status == domain.RequestIssued && r.Issuer == suite.actor.UserID
	})).Return(nil).Once()
	suite.mockCounter.On("Next", ctx, suite.actor.CompanyID, mock.AnythingOfType("string")).Return(int64(12), nil).Once()
	suite.mockTxns.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Direction == domain.Expense &&
			txn.Category == domain.CategoryMaterial &&
			txn.Status == domain.TxnSettled &&
			txn.Amount.Equal(dec("14000")) && // 40 * 350
			txn.MaterialRequestID == request.RequestID
	})).Return(nil).Once()
	suite.mockProjects.On("AdjustBudgetFigures", ctx, suite.actor.CompanyID, "proj-1", decimal.Zero, dec("14000")).Return(nil).Once()
	suite.mockProjects.On("FindProjectByID", ctx, suite.actor.CompanyID, "proj-1").Return(&domain.Project{ProjectID: "proj-1", ApprovedBudget: dec("1000000"), ActualSpend: dec("14000")}, nil).Once()

	issued, err := suite.service.IssueRequest(ctx, suite.actor, request.RequestID, "")

	suite.Require().NoError(err)
	suite.Equal(domain.RequestIssued, issued.Status)
	suite.mockTxns.AssertExpectations(suite.T())
	suite.mockProjects.AssertExpectations(suite.T())
}

func (suite *MaterialRequestServiceTestSuite) TestIssueRequest_NoBatchCostPostsZeroExpense() {
	ctx := context.Background()
	request := suite.pendingRequest("40")
	request.Status = domain.RequestApproved
	stock := &domain.StockRecord{
		CompanyID:      suite.actor.CompanyID,
		MaterialID:     "mat-cement",
		TotalStock:     dec("100"),
		AvailableStock: dec("60"),
		ReservedStock:  dec("40"),
	}

	suite.mockRequests.On("FindRequestByIDForUpdate", ctx, suite.actor.CompanyID, request.RequestID).Return(request, nil).Once()
	suite.mockStock.On("FindStockByMaterialForUpdate", ctx, suite.actor.CompanyID, "mat-cement").Return(stock, nil).Once()
	suite.mockStock.On("UpdateStock", ctx, mock.AnythingOfType("domain.StockRecord")).Return(nil).Once()
	suite.mockRequests.On("UpdateRequest", ctx, mock.AnythingOfType("domain.MaterialRequest")).Return(nil).Once()
	suite.mockCounter.On("Next", ctx, suite.actor.CompanyID, mock.AnythingOfType("string")).Return(int64(13), nil).Once()
	suite.mockTxns.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Amount.IsZero() && txn.MaterialRequestID == request.RequestID
	})).Return(nil).Once()

	_, err := suite.service.IssueRequest(ctx, suite.actor, request.RequestID, "")

	suite.Require().NoError(err)
	suite.mockTxns.AssertExpectations(suite.T())
	suite.mockProjects.AssertNotCalled(suite.T(), "AdjustBudgetFigures", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MaterialRequestServiceTestSuite) TestCancelRequest_ApprovedReleasesReservation() {
	ctx := context.Background()
	request := suite.pendingRequest("40")
	request.Status = domain.RequestApproved
	stock := &domain.StockRecord{
		CompanyID:      suite.actor.CompanyID,
		MaterialID:     "mat-cement",
		TotalStock:     dec("100"),
		AvailableStock: dec("60"),
		ReservedStock:  dec("40"),
	}

	suite.mockRequests.On("FindRequestByIDForUpdate", ctx, suite.actor.CompanyID, request.RequestID).Return(request, nil).Once()
	suite.mockStock.On("FindStockByMaterialForUpdate", ctx, suite.actor.CompanyID, "mat-cement").Return(stock, nil).Once()
	suite.mockStock.On("UpdateStock", ctx, mock.MatchedBy(func(s domain.StockRecord) bool {
		return s.AvailableStock.Equal(dec("100")) && s.ReservedStock.IsZero()
	})).Return(nil).Once()
	suite.mockRequests.On("UpdateRequest", ctx, mock.MatchedBy(func(r domain.MaterialRequest) bool {
		return r.Status == domain.RequestCancelled
	})).Return(nil).Once()

	cancelled, err := suite.service.CancelRequest(ctx, suite.actor, request.RequestID, "no longer needed")

	suite.Require().NoError(err)
	suite.Equal(domain.RequestCancelled, cancelled.Status)
	suite.mockStock.AssertExpectations(suite.T())
}

func (suite *MaterialRequestServiceTestSuite) TestCancelRequest_PendingSkipsStock() {
	ctx := context.Background()
	request := suite.pendingRequest("40")

	suite.mockRequests.On("FindRequestByIDForUpdate", ctx, suite.actor.CompanyID, request.RequestID).Return(request, nil).Once()
	suite.mockRequests.On("UpdateRequest", ctx, mock.AnythingOfType("domain.MaterialRequest")).Return(nil).Once()

	_, err := suite.service.CancelRequest(ctx, suite.actor, request.RequestID, "")

	suite.Require().NoError(err)
	suite.mockStock.AssertNotCalled(suite.T(), "FindStockByMaterialForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MaterialRequestServiceTestSuite) TestCancelRequest_TerminalStatus() {
	ctx := context.Background()
	request := suite.pendingRequest("40")
	request.Status = domain.RequestIssued

	suite.mockRequests.On("FindRequestByIDForUpdate", ctx, suite.actor.CompanyID, request.RequestID).Return(request, nil).Once()

	_, err := suite.service.CancelRequest(ctx, suite.actor, request.RequestID, "")

	suite.Require().ErrorIs(err, apperrors.ErrInvalidTransition)
}

func TestMaterialRequestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MaterialRequestServiceTestSuite))
}
