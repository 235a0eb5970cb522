package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AttendanceStatus is the outcome of one working day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceHalfDay AttendanceStatus = "HalfDay"
	AttendanceLate    AttendanceStatus = "Late"
)

// AttendanceEntry is one calendar day of a worker's attendance.
// Entries are unique per day; marking the same day again overwrites.
type AttendanceEntry struct {
	Date    time.Time        `json:"date"` // Truncated to midnight UTC
	Status  AttendanceStatus `json:"status"`
	LateFee decimal.Decimal  `json:"lateFee"`
	Paid    bool             `json:"paid"`
}

// Advance is money given to a worker ahead of settlement.
type Advance struct {
	Date    time.Time       `json:"date"`
	Amount  decimal.Decimal `json:"amount"`
	Reason  string          `json:"reason,omitempty"`
	Settled bool            `json:"settled"`
}

// Settlement is one completed payroll cycle.
type Settlement struct {
	Date            time.Time       `json:"date"`
	TotalEarnings   decimal.Decimal `json:"totalEarnings"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetPayable      decimal.Decimal `json:"netPayable"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
	Notes           string          `json:"notes,omitempty"`
}

// Worker is a daily-wage labourer whose attendance, advances and settlements
// form a small per-worker ledger. PendingDues carries the unpaid (or overpaid,
// when negative) remainder from the last settlement into the next cycle.
type Worker struct {
	WorkerID    string            `json:"workerID"` // Primary key (UUID)
	WorkerNo    string            `json:"workerNo"` // Human-readable: LAB-NNNN
	CompanyID   string            `json:"companyID"`
	FullName    string            `json:"fullName"`
	Mobile      string            `json:"mobile"`
	Category    string            `json:"category"` // Mason, Electrician, Helper, ...
	PhotoURL    string            `json:"photoUrl,omitempty"`
	DailyWage   decimal.Decimal   `json:"dailyWage"`
	PendingDues decimal.Decimal   `json:"pendingDues"`
	IsActive    bool              `json:"isActive"`
	Attendance  []AttendanceEntry `json:"attendance"`
	Advances    []Advance         `json:"advances"`
	Settlements []Settlement      `json:"settlements"`
	AuditFields
}

// DayEarnings returns what one attendance entry earns against the given wage:
// full wage for Present, half for HalfDay, wage minus the late fee for Late,
// nothing for Absent.
func DayEarnings(wage decimal.Decimal, e AttendanceEntry) decimal.Decimal {
	switch e.Status {
	case AttendancePresent:
		return wage
	case AttendanceHalfDay:
		return wage.Div(decimal.NewFromInt(2))
	case AttendanceLate:
		return wage.Sub(e.LateFee)
	default:
		return decimal.Zero
	}
}

// SettlementComputation is the outcome of summing a worker's open ledger.
type SettlementComputation struct {
	Earnings     decimal.Decimal
	Deductions   decimal.Decimal
	NetPayable   decimal.Decimal
	UnpaidDays   int
	OpenAdvances int
	PreviousDues decimal.Decimal
}

// ComputeSettlement sums earnings over unpaid attendance and deductions over
// unsettled advances, then folds in the dues carried from the previous cycle:
//
//	netPayable = earnings + pendingDues - deductions
//
// It does not mutate the worker; marking entries paid/settled happens
// atomically alongside persisting the settlement record.
func ComputeSettlement(w *Worker) SettlementComputation {
	earnings := decimal.Zero
	unpaidDays := 0
	for _, a := range w.Attendance {
		if a.Paid {
			continue
		}
		earnings = earnings.Add(DayEarnings(w.DailyWage, a))
		unpaidDays++
	}

	deductions := decimal.Zero
	openAdvances := 0
	for _, adv := range w.Advances {
		if adv.Settled {
			continue
		}
		deductions = deductions.Add(adv.Amount)
		openAdvances++
	}

	return SettlementComputation{
		Earnings:     earnings,
		Deductions:   deductions,
		NetPayable:   earnings.Add(w.PendingDues).Sub(deductions),
		UnpaidDays:   unpaidDays,
		OpenAdvances: openAdvances,
		PreviousDues: w.PendingDues,
	}
}

// TruncateToDay normalizes a timestamp to midnight UTC so attendance
// comparisons work per calendar date.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
}

// UpsertAttendance records status for a calendar day, replacing any existing
// entry for the same day. It returns whether an existing entry was replaced.
func (w *Worker) UpsertAttendance(date time.Time, status AttendanceStatus, lateFee decimal.Decimal) bool {
	day := TruncateToDay(date)
	for i := range w.Attendance {
		if TruncateToDay(w.Attendance[i].Date).Equal(day) {
			w.Attendance[i].Status = status
			w.Attendance[i].LateFee = lateFee
			return true
		}
	}
	w.Attendance = append(w.Attendance, AttendanceEntry{Date: day, Status: status, LateFee: lateFee})
	return false
}

// RemoveAttendance deletes the entry for a calendar day if one exists.
func (w *Worker) RemoveAttendance(date time.Time) bool {
	day := TruncateToDay(date)
	for i := range w.Attendance {
		if TruncateToDay(w.Attendance[i].Date).Equal(day) {
			w.Attendance = append(w.Attendance[:i], w.Attendance[i+1:]...)
			return true
		}
	}
	return false
}
