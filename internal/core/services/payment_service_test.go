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

type PaymentServiceTestSuite struct {
	suite.Suite
	mockCounter  *MockCounterRepository
	mockPayments *MockPaymentRepository
	mockVendors  *MockVendorRepository
	mockProjects *MockProjectRepository
	mockTxns     *MockTransactionRepository
	service      portssvc.PaymentSvcFacade

	actor domain.Actor
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockCounter = new(MockCounterRepository)
	suite.mockPayments = new(MockPaymentRepository)
	suite.mockVendors = new(MockVendorRepository)
	suite.mockProjects = new(MockProjectRepository)
	suite.mockTxns = new(MockTransactionRepository)
	suite.service = services.NewPaymentService(
		fakeTxManager{},
		suite.mockCounter,
		suite.mockPayments,
		suite.mockVendors,
		suite.mockProjects,
		suite.mockTxns,
		portssvc.NoopNotifier{},
	)
	suite.actor = domain.Actor{
		UserID:    uuid.NewString(),
		Name:      "Accounts",
		CompanyID: uuid.NewString(),
		Role:      "finance",
	}
}

func (suite *PaymentServiceTestSuite) payment(status domain.PaymentRequestStatus, amount string) *domain.PaymentRequest {
	return &domain.PaymentRequest{
		PaymentID: uuid.NewString(),
		RequestNo: "PAY-2608-00001",
		CompanyID: suite.actor.CompanyID,
		VendorID:  "vendor-1",
		ProjectID: "proj-1",
		Amount:    dec(amount),
		Category:  domain.CategoryMachinery,
		Status:    status,
	}
}

func (suite *PaymentServiceTestSuite) TestCreatePayment_LocksBudget() {
	ctx := context.Background()
	req := dto.CreatePaymentRequestRequest{
		VendorID:  "vendor-1",
		ProjectID: "proj-1",
		Amount:    dec("50000"),
		Purpose:   "crane rental",
	}
	vendor := &domain.Vendor{
		VendorID:   "vendor-1",
		Financials: domain.VendorFinancials{AdvancePaid: dec("10000")},
	}

	suite.mockVendors.On("FindVendorByID", ctx, suite.actor.CompanyID, "vendor-1").Return(vendor, nil).Once()
	suite.mockProjects.On("FindProjectByIDForUpdate", ctx, suite.actor.CompanyID, "proj-1").Return(&domain.Project{ProjectID: "proj-1"}, nil).Once()
	suite.mockProjects.On("AdjustBudgetFigures", ctx, suite.actor.CompanyID, "proj-1", dec("50000"), decimal.Zero).Return(nil).Once()
	suite.mockCounter.On("Next", ctx, suite.actor.CompanyID, mock.AnythingOfType("string")).Return(int64(3), nil).Once()
	suite.mockPayments.On("SavePayment", ctx, mock.MatchedBy(func(p domain.PaymentRequest) bool {
		return p.Status == domain.PaymentPending &&
			p.Advance.AdvancePaid.Equal(dec("10000")) &&
			p.RequestedBy == suite.actor.UserID
	})).Return(nil).Once()

	payment, err := suite.service.CreatePayment(ctx, suite.actor, req)

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentPending, payment.Status)
	suite.Equal(domain.CategoryOverheads, payment.Category, "category defaults when omitted")
	suite.mockProjects.AssertExpectations(suite.T())
	suite.mockPayments.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestCreatePayment_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreatePaymentRequestRequest{VendorID: "vendor-1", ProjectID: "proj-1", Amount: dec("-5")}

	payment, err := suite.service.CreatePayment(ctx, suite.actor, req)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(payment)
	suite.mockProjects.AssertNotCalled(suite.T(), "AdjustBudgetFigures", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestVerifyPayment_Success() {
	ctx := context.Background()
	payment := suite.payment(domain.PaymentPending, "50000")

	suite.mockPayments.On("FindPaymentByIDForUpdate", ctx, suite.actor.CompanyID, payment.PaymentID).Return(payment, nil).Once()
	suite.mockPayments.On("UpdatePayment", ctx, mock.MatchedBy(func(p domain.PaymentRequest) bool {
		return p.Status == domain.PaymentVerified && p.VerifiedBy == suite.actor.UserID
	})).Return(nil).Once()

	verified, err := suite.service.VerifyPayment(ctx, suite.actor, payment.PaymentID, "invoice checked")

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentVerified, verified.Status)
	suite.mockPayments.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestVerifyPayment_WrongStatus() {
	ctx := context.Background()
	payment := suite.payment(domain.PaymentReleased, "50000")

	suite.mockPayments.On("FindPaymentByIDForUpdate", ctx, suite.actor.CompanyID, payment.PaymentID).Return(payment, nil).Once()

	_, err := suite.service.VerifyPayment(ctx, suite.actor, payment.PaymentID, "")

	suite.Require().ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *PaymentServiceTestSuite) TestReleasePayment_ConvertsLockAndShrinksPayables() {
	ctx := context.Background()
	payment := suite.payment(domain.PaymentVerified, "50000")
	payment.Advance = domain.AdvanceLedger{AdjustedAmount: dec("5000")}

	suite.mockPayments.On("FindPaymentByIDForUpdate", ctx, suite.actor.CompanyID, payment.PaymentID).Return(payment, nil).Once()
	suite.mockProjects.On("FindProjectByIDForUpdate", ctx, suite.actor.CompanyID, "proj-1").Return(&domain.Project{ProjectID: "proj-1"}, nil).Once()
	// Lock released, spend recorded.
	suite.mockProjects.On("AdjustBudgetFigures", ctx, suite.actor.CompanyID, "proj-1", dec("-50000"), dec("50000")).Return(nil).Once()
	suite.mockVendors.On("FindVendorByIDForUpdate", ctx, suite.actor.CompanyID, "vendor-1").Return(&domain.Vendor{VendorID: "vendor-1"}, nil).Once()
	// Payables shrink by the amount, advance by the adjustment.
	suite.mockVendors.On("AdjustFinancials", ctx, suite.actor.CompanyID, "vendor-1", dec("-50000"), dec("-5000")).Return(nil).Once()
	suite.mockCounter.On("Next", ctx, suite.actor.CompanyID, mock.AnythingOfType("string")).Return(int64(8), nil).Once()
	suite.mockTxns.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Direction == domain.Expense &&
			txn.Status == domain.TxnSettled &&
			txn.Amount.Equal(dec("50000")) &&
			txn.VendorID == "vendor-1" &&
			txn.PaymentMode == "NEFT"
	})).Return(nil).Once()
	suite.mockPayments.On("UpdatePayment", ctx, mock.MatchedBy(func(p domain.PaymentRequest) bool {
		return p.Status == domain.PaymentReleased &&
			p.ReleasedBy == suite.actor.UserID &&
			p.Payment.Mode == "NEFT" &&
			p.Payment.PaidDate != nil
	})).Return(nil).Once()
	suite.mockProjects.On("FindProjectByID", ctx, suite.actor.CompanyID, "proj-1").Return(&domain.Project{ProjectID: "proj-1", ApprovedBudget: dec("1000000"), ActualSpend: dec("50000")}, nil).Once()

	released, err := suite.service.ReleasePayment(ctx, suite.actor, payment.PaymentID, dto.ReleasePaymentRequest{
		Mode:        "NEFT",
		ReferenceID: "UTR123456",
	})

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentReleased, released.Status)
	suite.mockProjects.AssertExpectations(suite.T())
	suite.mockVendors.AssertExpectations(suite.T())
	suite.mockTxns.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestReleasePayment_RequiresVerified() {
	ctx := context.Background()
	payment := suite.payment(domain.PaymentPending, "50000")

	suite.mockPayments.On("FindPaymentByIDForUpdate", ctx, suite.actor.CompanyID, payment.PaymentID).Return(payment, nil).Once()

	_, err := suite.service.ReleasePayment(ctx, suite.actor, payment.PaymentID, dto.ReleasePaymentRequest{Mode: "Cash"})

	suite.Require().ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockProjects.AssertNotCalled(suite.T(), "AdjustBudgetFigures", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestRejectPayment_ReleasesLockWithoutSpend() {
	ctx := context.Background()
	payment := suite.payment(domain.PaymentVerified, "50000")

	suite.mockPayments.On("FindPaymentByIDForUpdate", ctx, suite.actor.CompanyID, payment.PaymentID).Return(payment, nil).Once()
	suite.mockProjects.On("FindProjectByIDForUpdate", ctx, suite.actor.CompanyID, "proj-1").Return(&domain.Project{ProjectID: "proj-1"}, nil).Once()
	suite.mockProjects.On("AdjustBudgetFigures", ctx, suite.actor.CompanyID, "proj-1", dec("-50000"), decimal.Zero).Return(nil).Once()
	suite.mockPayments.On("UpdatePayment", ctx, mock.MatchedBy(func(p domain.PaymentRequest) bool {
		return p.Status == domain.PaymentRejected
	})).Return(nil).Once()

	rejected, err := suite.service.RejectPayment(ctx, suite.actor, payment.PaymentID, "duplicate invoice")

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentRejected, rejected.Status)
	suite.mockVendors.AssertNotCalled(suite.T(), "AdjustFinancials", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockTxns.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestRejectPayment_AlreadyReleased() {
	ctx := context.Background()
	payment := suite.payment(domain.PaymentReleased, "50000")

	suite.mockPayments.On("FindPaymentByIDForUpdate", ctx, suite.actor.CompanyID, payment.PaymentID).Return(payment, nil).Once()

	_, err := suite.service.RejectPayment(ctx, suite.actor, payment.PaymentID, "")

	suite.Require().ErrorIs(err, apperrors.ErrInvalidTransition)
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
