package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	portsrepo "github.com/sitesutra/construction_erp_app/internal/core/ports/repositories"
	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/dto"
)

// forecastPageSize bounds repository page walks when building forecasts.
const forecastPageSize = 100

// projectService manages projects and derived budget views.
type projectService struct {
	BaseService
	projectRepo portsrepo.ProjectRepositoryFacade
	paymentRepo portsrepo.PaymentRequestRepositoryFacade
	poRepo      portsrepo.PurchaseOrderRepositoryFacade
}

// NewProjectService creates a new project service.
func NewProjectService(
	projectRepo portsrepo.ProjectRepositoryFacade,
	paymentRepo portsrepo.PaymentRequestRepositoryFacade,
	poRepo portsrepo.PurchaseOrderRepositoryFacade,
	notifier portssvc.Notifier,
) portssvc.ProjectSvcFacade {
	return &projectService{
		BaseService: BaseService{Notifier: notifier},
		projectRepo: projectRepo,
		paymentRepo: paymentRepo,
		poRepo:      poRepo,
	}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

func (s *projectService) GetProjectByID(ctx context.Context, companyID, projectID string) (*domain.Project, error) {
	return s.projectRepo.FindProjectByID(ctx, companyID, projectID)
}

func (s *projectService) ListProjects(ctx context.Context, companyID string, limit int, nextToken *string) (*dto.ListProjectsResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	projects, next, err := s.projectRepo.ListProjects(ctx, companyID, limit, nextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListProjectsResponse{
		Projects:  dto.ToProjectResponses(projects),
		NextToken: next,
	}, nil
}

func (s *projectService) GetBudgetHealth(ctx context.Context, companyID, projectID string) (*domain.BudgetHealth, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, companyID, projectID)
	if err != nil {
		return nil, err
	}
	health := domain.ComputeBudgetHealth(project)
	return &health, nil
}

// GetCashFlowForecast projects upcoming outflows: unreleased payment requests
// plus issued-but-undelivered purchase order exposure.
func (s *projectService) GetCashFlowForecast(ctx context.Context, companyID, projectID string) (*dto.CashFlowForecast, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, companyID, projectID)
	if err != nil {
		return nil, err
	}

	forecast := &dto.CashFlowForecast{
		ProjectID:       projectID,
		PendingPayments: decimal.Zero,
		OpenPOExposure:  decimal.Zero,
		Items:           []dto.CashFlowItem{},
	}

	var nextToken *string
	for {
		payments, next, err := s.paymentRepo.ListPayments(ctx, companyID, portsrepo.PaymentRequestFilter{ProjectID: &projectID}, forecastPageSize, nextToken)
		if err != nil {
			return nil, err
		}
		for i := range payments {
			p := &payments[i]
			if p.Status != domain.PaymentPending && p.Status != domain.PaymentVerified {
				continue
			}
			forecast.PendingPayments = forecast.PendingPayments.Add(p.Amount)
			forecast.Items = append(forecast.Items, dto.CashFlowItem{
				Source:      "PAYMENT_REQUEST",
				ReferenceID: p.RequestNo,
				Amount:      p.Amount,
			})
		}
		if next == nil {
			break
		}
		nextToken = next
	}

	nextToken = nil
	for {
		orders, next, err := s.poRepo.ListPOs(ctx, companyID, portsrepo.PurchaseOrderFilter{ProjectID: &projectID}, forecastPageSize, nextToken)
		if err != nil {
			return nil, err
		}
		for i := range orders {
			po := &orders[i]
			switch po.Status {
			case domain.POApproved, domain.POIssued, domain.POInTransit:
			default:
				continue
			}
			expectedBy := po.ExpectedDeliveryDate
			forecast.OpenPOExposure = forecast.OpenPOExposure.Add(po.GrandTotal)
			forecast.Items = append(forecast.Items, dto.CashFlowItem{
				Source:      "PURCHASE_ORDER",
				ReferenceID: po.PONumber,
				Amount:      po.GrandTotal,
				ExpectedBy:  &expectedBy,
			})
		}
		if next == nil {
			break
		}
		nextToken = next
	}

	health := domain.ComputeBudgetHealth(project)
	forecast.TotalCommitted = forecast.PendingPayments.Add(forecast.OpenPOExposure)
	forecast.AvailableBudget = health.AvailableBudget
	forecast.ProjectedBalance = health.AvailableBudget.Sub(forecast.OpenPOExposure)
	return forecast, nil
}

// defaultContingencyRate reserves 5% of the budget when no explicit
// contingency fund is given.
var defaultContingencyRate = decimal.NewFromFloat(0.05)

func (s *projectService) CreateProject(ctx context.Context, actor domain.Actor, req dto.CreateProjectRequest) (*domain.Project, error) {
	logger := s.GetLogger(ctx)

	approved := req.ApprovedBudget
	if approved.IsZero() {
		approved = req.Budget
	}
	contingency := req.ContingencyFund
	if contingency.IsZero() {
		contingency = req.Budget.Mul(defaultContingencyRate)
	}

	now := time.Now().UTC()
	project := domain.Project{
		ProjectID:       uuid.NewString(),
		CompanyID:       actor.CompanyID,
		Name:            req.Name,
		Location:        req.Location,
		Client:          req.Client,
		Budget:          req.Budget,
		ApprovedBudget:  approved,
		ContingencyFund: contingency,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Status:          domain.ProjectPlanning,
		AuditFields:     newAuditFields(actor, now),
	}

	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		logger.Warn("Failed to create project", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, err
	}

	logger.Info("Project created", slog.String("project_id", project.ProjectID), slog.String("name", project.Name))
	return &project, nil
}

// UpdateProject edits general fields. LockedAmount and ActualSpend never pass
// through here.
func (s *projectService) UpdateProject(ctx context.Context, actor domain.Actor, projectID string, req dto.UpdateProjectRequest) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, actor.CompanyID, projectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Location != nil {
		project.Location = *req.Location
	}
	if req.Client != nil {
		project.Client = *req.Client
	}
	if req.Budget != nil {
		project.Budget = *req.Budget
	}
	if req.ApprovedBudget != nil {
		project.ApprovedBudget = *req.ApprovedBudget
	}
	if req.RevisedBudget != nil {
		project.RevisedBudget = *req.RevisedBudget
	}
	if req.ContingencyFund != nil {
		project.ContingencyFund = *req.ContingencyFund
	}
	if req.StartDate != nil {
		project.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = *req.EndDate
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Progress != nil {
		project.Progress = *req.Progress
	}
	touchAudit(&project.AuditFields, actor, time.Now().UTC())

	if err := s.projectRepo.UpdateProject(ctx, *project); err != nil {
		return nil, err
	}
	return project, nil
}
