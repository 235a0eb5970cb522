package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of a chart-of-accounts entry.
type AccountType string

const (
	Asset     AccountType = "Asset"
	Liability AccountType = "Liability"
	Equity    AccountType = "Equity"
	Revenue   AccountType = "Revenue"
	ExpenseAc AccountType = "Expense"
)

// Account is a chart-of-accounts record scoped to one company.
type Account struct {
	AccountID   string          `json:"accountID"` // Primary key (UUID)
	CompanyID   string          `json:"companyID"`
	Code        string          `json:"code"` // e.g. "1000"
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Description string          `json:"description,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
	AuditFields
}

// DefaultChartOfAccounts returns the seed accounts a new company starts with.
func DefaultChartOfAccounts() []Account {
	defaults := []struct {
		code string
		name string
		typ  AccountType
	}{
		{"1000", "Cash in Hand", Asset},
		{"1010", "Petty Cash", Asset},
		{"1100", "Main Bank Account", Asset},
		{"1200", "Accounts Receivable (Clients)", Asset},
		{"1300", "Project Advances", Asset},
		{"2000", "Accounts Payable (Vendors)", Liability},
		{"2100", "GST Payable", Liability},
		{"2200", "TDS Payable", Liability},
		{"3000", "Equity / Initial Capital", Equity},
		{"3100", "Retained Earnings", Equity},
		{"4000", "Project Revenue", Revenue},
		{"4100", "Consultancy Income", Revenue},
		{"5000", "Material Procurement", ExpenseAc},
		{"5100", "Direct Labor Charges", ExpenseAc},
		{"5200", "Site Overheads", ExpenseAc},
		{"5300", "Office Rent & Utilities", ExpenseAc},
		{"5400", "Design & Engineering Costs", ExpenseAc},
	}

	accounts := make([]Account, len(defaults))
	for i, d := range defaults {
		accounts[i] = Account{
			Code:        d.code,
			Name:        d.name,
			AccountType: d.typ,
			Balance:     decimal.Zero,
		}
	}
	return accounts
}
