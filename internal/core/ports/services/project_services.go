package services

import (
	"context"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	"github.com/sitesutra/construction_erp_app/internal/dto"
)

// ProjectReaderSvc defines read operations for projects.
type ProjectReaderSvc interface {
	// GetProjectByID retrieves a specific project by its ID.
	GetProjectByID(ctx context.Context, companyID, projectID string) (*domain.Project, error)

	// ListProjects retrieves a paginated list of projects.
	ListProjects(ctx context.Context, companyID string, limit int, nextToken *string) (*dto.ListProjectsResponse, error)

	// GetBudgetHealth derives the traffic-light budget snapshot.
	GetBudgetHealth(ctx context.Context, companyID, projectID string) (*domain.BudgetHealth, error)

	// GetCashFlowForecast projects upcoming outflows from pending payment
	// requests and undelivered purchase orders.
	GetCashFlowForecast(ctx context.Context, companyID, projectID string) (*dto.CashFlowForecast, error)
}

// ProjectWriterSvc defines write operations for projects.
type ProjectWriterSvc interface {
	// CreateProject registers a new project.
	CreateProject(ctx context.Context, actor domain.Actor, req dto.CreateProjectRequest) (*domain.Project, error)

	// UpdateProject edits general project fields; locked amount and actual
	// spend are off limits here and move only through the finance workflows.
	UpdateProject(ctx context.Context, actor domain.Actor, projectID string, req dto.UpdateProjectRequest) (*domain.Project, error)
}

// ProjectSvcFacade combines all project service interfaces.
type ProjectSvcFacade interface {
	ProjectReaderSvc
	ProjectWriterSvc
}
