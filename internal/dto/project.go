package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// CreateProjectRequest defines the data needed to register a project.
type CreateProjectRequest struct {
	Name            string          `json:"name" binding:"required"`
	Location        string          `json:"location"`
	Client          string          `json:"client"`
	Budget          decimal.Decimal `json:"budget"`
	ApprovedBudget  decimal.Decimal `json:"approvedBudget"`
	ContingencyFund decimal.Decimal `json:"contingencyFund"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
}

// UpdateProjectRequest defines the fields allowed to change on a project.
// Budget-lock and spend figures are deliberately absent; only the finance
// workflows move them.
type UpdateProjectRequest struct {
	Name            *string               `json:"name"`
	Location        *string               `json:"location"`
	Client          *string               `json:"client"`
	Budget          *decimal.Decimal      `json:"budget"`
	ApprovedBudget  *decimal.Decimal      `json:"approvedBudget"`
	RevisedBudget   *decimal.Decimal      `json:"revisedBudget"`
	ContingencyFund *decimal.Decimal      `json:"contingencyFund"`
	StartDate       *time.Time            `json:"startDate"`
	EndDate         *time.Time            `json:"endDate"`
	Status          *domain.ProjectStatus `json:"status"`
	Progress        *decimal.Decimal      `json:"progress"`
}

// ProjectResponse defines the data returned for a project.
type ProjectResponse struct {
	ProjectID       string               `json:"projectID"`
	Name            string               `json:"name"`
	Location        string               `json:"location,omitempty"`
	Client          string               `json:"client,omitempty"`
	Budget          decimal.Decimal      `json:"budget"`
	ApprovedBudget  decimal.Decimal      `json:"approvedBudget"`
	RevisedBudget   decimal.Decimal      `json:"revisedBudget"`
	ContingencyFund decimal.Decimal      `json:"contingencyFund"`
	LockedAmount    decimal.Decimal      `json:"lockedAmount"`
	ActualSpend     decimal.Decimal      `json:"actualSpend"`
	StartDate       time.Time            `json:"startDate"`
	EndDate         time.Time            `json:"endDate"`
	Status          domain.ProjectStatus `json:"status"`
	Progress        decimal.Decimal      `json:"progress"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// ListProjectsResponse is a page of projects plus the token for the next page.
type ListProjectsResponse struct {
	Projects  []ProjectResponse `json:"projects"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// CashFlowItem is one upcoming outflow in the forecast.
type CashFlowItem struct {
	Source      string          `json:"source"` // PAYMENT_REQUEST or PURCHASE_ORDER
	ReferenceID string          `json:"referenceID"`
	Amount      decimal.Decimal `json:"amount"`
	ExpectedBy  *time.Time      `json:"expectedBy,omitempty"`
}

// CashFlowForecast projects committed outflows against available budget.
type CashFlowForecast struct {
	ProjectID        string          `json:"projectID"`
	PendingPayments  decimal.Decimal `json:"pendingPayments"`
	OpenPOExposure   decimal.Decimal `json:"openPoExposure"`
	TotalCommitted   decimal.Decimal `json:"totalCommitted"`
	AvailableBudget  decimal.Decimal `json:"availableBudget"`
	ProjectedBalance decimal.Decimal `json:"projectedBalance"`
	Items            []CashFlowItem  `json:"items"`
}

// ToProjectResponse converts a domain.Project to its response form.
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:       p.ProjectID,
		Name:            p.Name,
		Location:        p.Location,
		Client:          p.Client,
		Budget:          p.Budget,
		ApprovedBudget:  p.ApprovedBudget,
		RevisedBudget:   p.RevisedBudget,
		ContingencyFund: p.ContingencyFund,
		LockedAmount:    p.LockedAmount,
		ActualSpend:     p.ActualSpend,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		Status:          p.Status,
		Progress:        p.Progress,
		CreatedAt:       p.CreatedAt,
	}
}

// ToProjectResponses converts a slice of projects.
func ToProjectResponses(projects []domain.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = ToProjectResponse(&projects[i])
	}
	return responses
}
