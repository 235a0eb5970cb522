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

type PayrollServiceTestSuite struct {
	suite.Suite
	mockCounter  *MockCounterRepository
	mockWorkers  *MockWorkerRepository
	mockProjects *MockProjectRepository
	mockTxns     *MockTransactionRepository
	service      portssvc.PayrollSvcFacade

	actor domain.Actor
}

func (suite *PayrollServiceTestSuite) SetupTest() {
	suite.mockCounter = new(MockCounterRepository)
	suite.mockWorkers = new(MockWorkerRepository)
	suite.mockProjects = new(MockProjectRepository)
	suite.mockTxns = new(MockTransactionRepository)
	suite.service = services.NewPayrollService(
		fakeTxManager{},
		suite.mockCounter,
		suite.mockWorkers,
		suite.mockProjects,
		suite.mockTxns,
		portssvc.NoopNotifier{},
	)
	suite.actor = domain.Actor{
		UserID:    uuid.NewString(),
		Name:      "Supervisor",
		CompanyID: uuid.NewString(),
		Role:      "supervisor",
	}
}

func (suite *PayrollServiceTestSuite) worker() *domain.Worker {
	return &domain.Worker{
		WorkerID:  uuid.NewString(),
		WorkerNo:  "LAB-0001",
		CompanyID: suite.actor.CompanyID,
		FullName:  "Ramesh Kumar",
		DailyWage: dec("800"),
		IsActive:  true,
	}
}

func (suite *PayrollServiceTestSuite) TestCreateWorker_Success() {
	ctx := context.Background()
	req := dto.CreateWorkerRequest{
		FullName:  "Ramesh Kumar",
		Mobile:    "9876543210",
		Category:  "Mason",
		DailyWage: dec("800"),
	}

	suite.mockCounter.On("Next", ctx, suite.actor.CompanyID, "LAB").Return(int64(42), nil).Once()
	suite.mockWorkers.On("SaveWorker", ctx, mock.MatchedBy(func(w domain.Worker) bool {
		return w.WorkerNo == "LAB-0042" && w.IsActive
	})).Return(nil).Once()

	worker, err := suite.service.CreateWorker(ctx, suite.actor, req)

	suite.Require().NoError(err)
	suite.Equal("LAB-0042", worker.WorkerNo)
	suite.True(worker.IsActive)
	suite.mockWorkers.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestCreateWorker_NonPositiveWage() {
	ctx := context.Background()
	req := dto.CreateWorkerRequest{FullName: "X", DailyWage: decimal.Zero}

	worker, err := suite.service.CreateWorker(ctx, suite.actor, req)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(worker)
}

func (suite *PayrollServiceTestSuite) TestMarkAttendance_SettledDayIsImmutable() {
	ctx := context.Background()
	worker := suite.worker()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	worker.Attendance = []domain.AttendanceEntry{{Date: day, Status: domain.AttendancePresent, Paid: true}}

	suite.mockWorkers.On("FindWorkerByIDForUpdate", ctx, suite.actor.CompanyID, worker.WorkerID).Return(worker, nil).Once()

	_, err := suite.service.MarkAttendance(ctx, suite.actor, worker.WorkerID, dto.MarkAttendanceRequest{
		Date:   day,
		Status: domain.AttendanceAbsent,
	})

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockWorkers.AssertNotCalled(suite.T(), "UpdateWorker", mock.Anything, mock.Anything)
}

func (suite *PayrollServiceTestSuite) TestMarkAttendance_OverwritesSameDay() {
	ctx := context.Background()
	worker := suite.worker()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	worker.Attendance = []domain.AttendanceEntry{{Date: day, Status: domain.AttendancePresent}}

	suite.mockWorkers.On("FindWorkerByIDForUpdate", ctx, suite.actor.CompanyID, worker.WorkerID).Return(worker, nil).Once()
	suite.mockWorkers.On("UpdateWorker", ctx, mock.MatchedBy(func(w domain.Worker) bool {
		return len(w.Attendance) == 1 && w.Attendance[0].Status == domain.AttendanceHalfDay
	})).Return(nil).Once()

	updated, err := suite.service.MarkAttendance(ctx, suite.actor, worker.WorkerID, dto.MarkAttendanceRequest{
		Date:   day.Add(10 * time.Hour),
		Status: domain.AttendanceHalfDay,
	})

	suite.Require().NoError(err)
	suite.Len(updated.Attendance, 1)
	suite.mockWorkers.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestAddAdvance_NonPositiveAmount() {
	ctx := context.Background()

	_, err := suite.service.AddAdvance(ctx, suite.actor, "worker-1", dto.AddAdvanceRequest{Amount: dec("-100")})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PayrollServiceTestSuite) TestSettleWorker_FullCycle() {
	ctx := context.Background()
	worker := suite.worker()
	worker.PendingDues = dec("200")
	worker.Attendance = []domain.AttendanceEntry{
		{Date: time.Now().UTC(), Status: domain.AttendancePresent},
		{Date: time.Now().UTC().Add(-24 * time.Hour), Status: domain.AttendanceHalfDay},
	}
	worker.Advances = []domain.Advance{{Amount: dec("500")}}

	// earnings 1200, dues 200, deductions 500 -> net 900; pay 600, carry 300.
	suite.mockWorkers.On("FindWorkerByIDForUpdate", ctx, suite.actor.CompanyID, worker.WorkerID).Return(worker, nil).Once()
	suite.mockProjects.On("FindProjectByID", ctx, suite.actor.CompanyID, "proj-1").Return(&domain.Project{ProjectID: "proj-1"}, nil).Twice()
	suite.mockWorkers.On("UpdateWorker", ctx, mock.MatchedBy(func(w domain.Worker) bool {
		allPaid := true
		for _, a := range w.Attendance {
			allPaid = allPaid && a.Paid
		}
		allSettled := true
		for _, adv := range w.Advances {
			allSettled = allSettled && adv.Settled
		}
		return allPaid && allSettled &&
			len(w.Settlements) == 1 &&
			w.Settlements[0].NetPayable.Equal(dec("900")) &&
			w.PendingDues.Equal(dec("300"))
	})).Return(nil).Once()
	suite.mockCounter.On("Next", ctx, suite.actor.CompanyID, mock.AnythingOfType("string")).Return(int64(9), nil).Once()
	suite.mockTxns.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Category == domain.CategoryPayroll &&
			txn.Status == domain.TxnSettled &&
			txn.Amount.Equal(dec("600"))
	})).Return(nil).Once()
	suite.mockProjects.On("AdjustBudgetFigures", ctx, suite.actor.CompanyID, "proj-1", decimal.Zero, dec("600")).Return(nil).Once()

	settled, err := suite.service.SettleWorker(ctx, suite.actor, worker.WorkerID, dto.SettleWorkerRequest{
		ProjectID:  "proj-1",
		AmountPaid: decPtr("600"),
	})

	suite.Require().NoError(err)
	suite.True(settled.PendingDues.Equal(dec("300")))
	suite.mockTxns.AssertExpectations(suite.T())
	suite.mockProjects.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestSettleWorker_ZeroPayoutSkipsLedger() {
	ctx := context.Background()
	worker := suite.worker()
	worker.Advances = []domain.Advance{{Amount: dec("500")}}

	// deductions 500, no earnings -> net -500 carried forward, nothing paid out.
	suite.mockWorkers.On("FindWorkerByIDForUpdate", ctx, suite.actor.CompanyID, worker.WorkerID).Return(worker, nil).Once()
	suite.mockProjects.On("FindProjectByID", ctx, suite.actor.CompanyID, "proj-1").Return(&domain.Project{ProjectID: "proj-1"}, nil).Once()
	suite.mockWorkers.On("UpdateWorker", ctx, mock.MatchedBy(func(w domain.Worker) bool {
		return w.PendingDues.Equal(dec("-500"))
	})).Return(nil).Once()

	settled, err := suite.service.SettleWorker(ctx, suite.actor, worker.WorkerID, dto.SettleWorkerRequest{
		ProjectID:  "proj-1",
		AmountPaid: decPtr("0"),
	})

	suite.Require().NoError(err)
	suite.True(settled.PendingDues.Equal(dec("-500")))
	suite.mockTxns.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
	suite.mockProjects.AssertNotCalled(suite.T(), "AdjustBudgetFigures", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PayrollServiceTestSuite) TestSettleWorker_NothingToSettle() {
	ctx := context.Background()
	worker := suite.worker()

	suite.mockWorkers.On("FindWorkerByIDForUpdate", ctx, suite.actor.CompanyID, worker.WorkerID).Return(worker, nil).Once()
	suite.mockProjects.On("FindProjectByID", ctx, suite.actor.CompanyID, "proj-1").Return(&domain.Project{ProjectID: "proj-1"}, nil).Once()

	_, err := suite.service.SettleWorker(ctx, suite.actor, worker.WorkerID, dto.SettleWorkerRequest{
		ProjectID: "proj-1",
	})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockWorkers.AssertNotCalled(suite.T(), "UpdateWorker", mock.Anything, mock.Anything)
}

func (suite *PayrollServiceTestSuite) TestSettleWorker_OmittedAmountPaysFullNet() {
	ctx := context.Background()
	worker := suite.worker()
	worker.DailyWage = dec("500")
	worker.Attendance = []domain.AttendanceEntry{
		{Date: time.Now().UTC(), Status: domain.AttendancePresent},
		{Date: time.Now().UTC().Add(-24 * time.Hour), Status: domain.AttendancePresent},
		{Date: time.Now().UTC().Add(-48 * time.Hour), Status: domain.AttendancePresent},
	}
	worker.Advances = []domain.Advance{{Amount: dec("200")}}

	// earnings 1500, deductions 200 -> net 1300, paid in full, nothing carried.
	suite.mockWorkers.On("FindWorkerByIDForUpdate", ctx, suite.actor.CompanyID, worker.WorkerID).Return(worker, nil).Once()
	suite.mockProjects.On("FindProjectByID", ctx, suite.actor.CompanyID, "proj-1").Return(&domain.Project{ProjectID: "proj-1"}, nil).Twice()
	suite.mockWorkers.On("UpdateWorker", ctx, mock.MatchedBy(func(w domain.Worker) bool {
		return len(w.Settlements) == 1 &&
			w.Settlements[0].AmountPaid.Equal(dec("1300")) &&
			w.PendingDues.IsZero()
	})).Return(nil).Once()
	suite.mockCounter.On("Next", ctx, suite.actor.CompanyID, mock.AnythingOfType("string")).Return(int64(11), nil).Once()
	suite.mockTxns.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Category == domain.CategoryPayroll && txn.Amount.Equal(dec("1300"))
	})).Return(nil).Once()
	suite.mockProjects.On("AdjustBudgetFigures", ctx, suite.actor.CompanyID, "proj-1", decimal.Zero, dec("1300")).Return(nil).Once()

	settled, err := suite.service.SettleWorker(ctx, suite.actor, worker.WorkerID, dto.SettleWorkerRequest{
		ProjectID: "proj-1",
	})

	suite.Require().NoError(err)
	suite.True(settled.PendingDues.IsZero())
	suite.mockTxns.AssertExpectations(suite.T())
	suite.mockProjects.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestPreviewSettlement_DoesNotMutate() {
	ctx := context.Background()
	worker := suite.worker()
	worker.Attendance = []domain.AttendanceEntry{{Date: time.Now().UTC(), Status: domain.AttendancePresent}}

	suite.mockWorkers.On("FindWorkerByID", ctx, suite.actor.CompanyID, worker.WorkerID).Return(worker, nil).Once()

	comp, err := suite.service.PreviewSettlement(ctx, suite.actor.CompanyID, worker.WorkerID)

	suite.Require().NoError(err)
	suite.True(comp.NetPayable.Equal(dec("800")))
	suite.False(worker.Attendance[0].Paid)
	suite.mockWorkers.AssertNotCalled(suite.T(), "UpdateWorker", mock.Anything, mock.Anything)
}

func TestPayrollServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PayrollServiceTestSuite))
}
