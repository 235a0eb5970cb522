package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

func TestDayEarnings(t *testing.T) {
	wage := dec("800")

	tests := []struct {
		name  string
		entry domain.AttendanceEntry
		want  string
	}{
		{"present earns the full wage", domain.AttendanceEntry{Status: domain.AttendancePresent}, "800"},
		{"half day earns half", domain.AttendanceEntry{Status: domain.AttendanceHalfDay}, "400"},
		{"late deducts the fee", domain.AttendanceEntry{Status: domain.AttendanceLate, LateFee: dec("150")}, "650"},
		{"absent earns nothing", domain.AttendanceEntry{Status: domain.AttendanceAbsent}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.DayEarnings(wage, tt.entry)
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestComputeSettlement(t *testing.T) {
	worker := &domain.Worker{
		DailyWage:   dec("800"),
		PendingDues: dec("200"),
		Attendance: []domain.AttendanceEntry{
			{Status: domain.AttendancePresent},
			{Status: domain.AttendanceHalfDay},
			{Status: domain.AttendancePresent, Paid: true}, // already settled
			{Status: domain.AttendanceAbsent},
		},
		Advances: []domain.Advance{
			{Amount: dec("500")},
			{Amount: dec("300"), Settled: true},
		},
	}

	comp := domain.ComputeSettlement(worker)

	// 800 + 400 + 0 unpaid earnings, 500 open advance, 200 carried forward.
	assert.True(t, dec("1200").Equal(comp.Earnings), "earnings: got %s", comp.Earnings)
	assert.True(t, dec("500").Equal(comp.Deductions), "deductions: got %s", comp.Deductions)
	assert.True(t, dec("900").Equal(comp.NetPayable), "net: got %s", comp.NetPayable)
	assert.Equal(t, 3, comp.UnpaidDays)
	assert.Equal(t, 1, comp.OpenAdvances)
	assert.True(t, dec("200").Equal(comp.PreviousDues))
}

func TestComputeSettlement_NetPayableCanGoNegative(t *testing.T) {
	// Advances larger than earnings leave the worker owing the company.
	worker := &domain.Worker{
		DailyWage:  dec("500"),
		Attendance: []domain.AttendanceEntry{{Status: domain.AttendancePresent}},
		Advances:   []domain.Advance{{Amount: dec("2000")}},
	}

	comp := domain.ComputeSettlement(worker)

	assert.True(t, dec("-1500").Equal(comp.NetPayable), "net: got %s", comp.NetPayable)
}

func TestComputeSettlement_EmptyLedger(t *testing.T) {
	worker := &domain.Worker{DailyWage: dec("700")}

	comp := domain.ComputeSettlement(worker)

	assert.True(t, comp.Earnings.IsZero())
	assert.True(t, comp.Deductions.IsZero())
	assert.True(t, comp.NetPayable.IsZero())
	assert.Equal(t, 0, comp.UnpaidDays)
}

func TestWorker_UpsertAttendance(t *testing.T) {
	worker := &domain.Worker{}
	day := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	replaced := worker.UpsertAttendance(day, domain.AttendancePresent, decimal.Zero)
	assert.False(t, replaced)
	assert.Len(t, worker.Attendance, 1)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), worker.Attendance[0].Date)

	// Marking the same calendar day again overwrites instead of duplicating.
	replaced = worker.UpsertAttendance(day.Add(3*time.Hour), domain.AttendanceLate, dec("100"))
	assert.True(t, replaced)
	assert.Len(t, worker.Attendance, 1)
	assert.Equal(t, domain.AttendanceLate, worker.Attendance[0].Status)
	assert.True(t, dec("100").Equal(worker.Attendance[0].LateFee))
}

func TestWorker_RemoveAttendance(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	worker := &domain.Worker{
		Attendance: []domain.AttendanceEntry{{Date: day, Status: domain.AttendancePresent}},
	}

	assert.True(t, worker.RemoveAttendance(day.Add(6*time.Hour)))
	assert.Empty(t, worker.Attendance)
	assert.False(t, worker.RemoveAttendance(day))
}
