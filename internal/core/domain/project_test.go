package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

func TestComputeBudgetHealth(t *testing.T) {
	tests := []struct {
		name        string
		project     domain.Project
		wantStatus  domain.BudgetHealthStatus
		wantUtil    string
		wantAvail   string
	}{
		{
			name: "spend tracking progress is green",
			project: domain.Project{
				ApprovedBudget: dec("1000000"),
				ActualSpend:    dec("400000"),
				LockedAmount:   dec("100000"),
				Progress:       dec("45"),
			},
			wantStatus: domain.HealthGreen,
			wantUtil:   "40",
			wantAvail:  "500000",
		},
		{
			name: "spend slightly ahead of progress is yellow",
			project: domain.Project{
				ApprovedBudget: dec("1000000"),
				ActualSpend:    dec("580000"),
				Progress:       dec("50"),
			},
			wantStatus: domain.HealthYellow,
			wantUtil:   "58",
			wantAvail:  "420000",
		},
		{
			name: "spend far ahead of progress is red",
			project: domain.Project{
				ApprovedBudget: dec("1000000"),
				ActualSpend:    dec("700000"),
				Progress:       dec("50"),
			},
			wantStatus: domain.HealthRed,
			wantUtil:   "70",
			wantAvail:  "300000",
		},
		{
			name: "revised budget and contingency count toward the total",
			project: domain.Project{
				ApprovedBudget:  dec("1000000"),
				RevisedBudget:   dec("500000"),
				ContingencyFund: dec("100000"),
				ActualSpend:     dec("800000"),
				Progress:        dec("50"),
			},
			wantStatus: domain.HealthGreen,
			wantUtil:   "50",
			wantAvail:  "800000",
		},
		{
			name: "zero budget yields zero utilization",
			project: domain.Project{
				ActualSpend: dec("0"),
				Progress:    dec("0"),
			},
			wantStatus: domain.HealthGreen,
			wantUtil:   "0",
			wantAvail:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			health := domain.ComputeBudgetHealth(&tt.project)

			assert.Equal(t, tt.wantStatus, health.HealthStatus)
			assert.True(t, dec(tt.wantUtil).Equal(health.UtilizationPercent), "utilization: got %s", health.UtilizationPercent)
			assert.True(t, dec(tt.wantAvail).Equal(health.AvailableBudget), "available: got %s", health.AvailableBudget)
			assert.True(t, tt.project.Progress.Sub(health.UtilizationPercent).Equal(health.Variance))
		})
	}
}
