package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/core/services"
	"github.com/sitesutra/construction_erp_app/internal/dto"
)

type ProjectServiceTestSuite struct {
	suite.Suite
	mockProjects *MockProjectRepository
	mockPayments *MockPaymentRepository
	mockPOs      *MockPurchaseOrderRepository
	service      portssvc.ProjectSvcFacade

	actor domain.Actor
}

func (suite *ProjectServiceTestSuite) SetupTest() {
	suite.mockProjects = new(MockProjectRepository)
	suite.mockPayments = new(MockPaymentRepository)
	suite.mockPOs = new(MockPurchaseOrderRepository)
	suite.service = services.NewProjectService(
		suite.mockProjects,
		suite.mockPayments,
		suite.mockPOs,
		portssvc.NoopNotifier{},
	)
	suite.actor = domain.Actor{
		UserID:    uuid.NewString(),
		Name:      "Director",
		CompanyID: uuid.NewString(),
		Role:      "admin",
	}
}

func (suite *ProjectServiceTestSuite) TestCreateProject_DefaultsBudgetFields() {
	ctx := context.Background()
	req := dto.CreateProjectRequest{
		Name:   "Riverside Towers",
		Budget: dec("1000000"),
	}

	suite.mockProjects.On("SaveProject", ctx, mock.MatchedBy(func(p domain.Project) bool {
		return p.ApprovedBudget.Equal(dec("1000000")) &&
			p.ContingencyFund.Equal(dec("50000")) &&
			p.Status == domain.ProjectPlanning
	})).Return(nil).Once()

	project, err := suite.service.CreateProject(ctx, suite.actor, req)

	suite.Require().NoError(err)
	suite.True(project.ApprovedBudget.Equal(dec("1000000")))
	suite.True(project.ContingencyFund.Equal(dec("50000")))
	suite.mockProjects.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestCreateProject_KeepsExplicitBudgetFields() {
	ctx := context.Background()
	req := dto.CreateProjectRequest{
		Name:            "Riverside Towers",
		Budget:          dec("1000000"),
		ApprovedBudget:  dec("800000"),
		ContingencyFund: dec("20000"),
	}

	suite.mockProjects.On("SaveProject", ctx, mock.MatchedBy(func(p domain.Project) bool {
		return p.ApprovedBudget.Equal(dec("800000")) &&
			p.ContingencyFund.Equal(dec("20000"))
	})).Return(nil).Once()

	project, err := suite.service.CreateProject(ctx, suite.actor, req)

	suite.Require().NoError(err)
	suite.True(project.ApprovedBudget.Equal(dec("800000")))
	suite.mockProjects.AssertExpectations(suite.T())
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
