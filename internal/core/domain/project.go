package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus is the high-level state of a construction project.
type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "Planning"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectOnHold     ProjectStatus = "On Hold"
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectCancelled  ProjectStatus = "Cancelled"
)

// Project owns the budget figures the finance workflows mutate.
// LockedAmount is money committed by pending payment requests;
// ActualSpend is money actually paid out or expensed. Generic project edits
// never touch these fields.
type Project struct {
	ProjectID       string          `json:"projectID"` // Primary key (UUID)
	CompanyID       string          `json:"companyID"`
	Name            string          `json:"name"`
	Location        string          `json:"location"`
	Client          string          `json:"client"`
	Budget          decimal.Decimal `json:"budget"`
	ApprovedBudget  decimal.Decimal `json:"approvedBudget"`
	RevisedBudget   decimal.Decimal `json:"revisedBudget"`
	ContingencyFund decimal.Decimal `json:"contingencyFund"`
	LockedAmount    decimal.Decimal `json:"lockedAmount"`
	ActualSpend     decimal.Decimal `json:"actualSpend"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	Status          ProjectStatus   `json:"status"`
	Progress        decimal.Decimal `json:"progress"` // 0..100 percent complete
	AuditFields
}

// BudgetHealthStatus is the traffic-light verdict on budget consumption.
type BudgetHealthStatus string

const (
	HealthGreen  BudgetHealthStatus = "GREEN"
	HealthYellow BudgetHealthStatus = "YELLOW"
	HealthRed    BudgetHealthStatus = "RED"
)

// BudgetHealth is a derived snapshot of a project's budget position.
type BudgetHealth struct {
	TotalBudget        decimal.Decimal    `json:"totalBudget"`
	ApprovedBudget     decimal.Decimal    `json:"approvedBudget"`
	RevisedBudget      decimal.Decimal    `json:"revisedBudget"`
	ContingencyFund    decimal.Decimal    `json:"contingencyFund"`
	ActualSpend        decimal.Decimal    `json:"actualSpend"`
	LockedAmount       decimal.Decimal    `json:"lockedAmount"`
	AvailableBudget    decimal.Decimal    `json:"availableBudget"`
	UtilizationPercent decimal.Decimal    `json:"utilizationPercent"`
	Progress           decimal.Decimal    `json:"progress"`
	Variance           decimal.Decimal    `json:"variance"`
	HealthStatus       BudgetHealthStatus `json:"healthStatus"`
}

// ComputeBudgetHealth derives the budget snapshot from the project's current
// figures. It is a pure function: calling it twice on the same project yields
// the same snapshot.
func ComputeBudgetHealth(p *Project) BudgetHealth {
	total := p.ApprovedBudget.Add(p.RevisedBudget).Add(p.ContingencyFund)
	available := total.Sub(p.ActualSpend).Sub(p.LockedAmount)

	utilization := decimal.Zero
	if total.GreaterThan(decimal.Zero) {
		utilization = p.ActualSpend.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
	}

	status := HealthGreen
	if utilization.GreaterThan(p.Progress.Add(decimal.NewFromInt(10))) {
		status = HealthRed
	} else if utilization.GreaterThan(p.Progress.Add(decimal.NewFromInt(5))) {
		status = HealthYellow
	}

	return BudgetHealth{
		TotalBudget:        total,
		ApprovedBudget:     p.ApprovedBudget,
		RevisedBudget:      p.RevisedBudget,
		ContingencyFund:    p.ContingencyFund,
		ActualSpend:        p.ActualSpend,
		LockedAmount:       p.LockedAmount,
		AvailableBudget:    available,
		UtilizationPercent: utilization,
		Progress:           p.Progress,
		Variance:           p.Progress.Sub(utilization),
		HealthStatus:       status,
	}
}
