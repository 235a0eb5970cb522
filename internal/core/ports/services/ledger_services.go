package services

import (
	"context"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	"github.com/sitesutra/construction_erp_app/internal/dto"
)

// LedgerReaderSvc defines read operations for ledger transactions.
type LedgerReaderSvc interface {
	// GetTransactionByID retrieves a specific transaction by its ID.
	GetTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a paginated, filtered list of transactions.
	ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// GetProjectFinancialSummary totals settled income and expenses for a
	// project, grouped by category.
	GetProjectFinancialSummary(ctx context.Context, companyID, projectID string) (*dto.ProjectFinancialSummary, error)
}

// LedgerWriterSvc defines write operations for ledger transactions.
type LedgerWriterSvc interface {
	// CreateTransaction records a new income or expense entry in PENDING
	// status with an assigned document number.
	CreateTransaction(ctx context.Context, actor domain.Actor, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// ApproveTransaction moves a pending transaction to APPROVED.
	ApproveTransaction(ctx context.Context, actor domain.Actor, transactionID string) (*domain.Transaction, error)

	// SettleTransaction moves an approved transaction to SETTLED and folds
	// its amount into the project's actual spend (expenses only).
	SettleTransaction(ctx context.Context, actor domain.Actor, transactionID string, req dto.SettleTransactionRequest) (*domain.Transaction, error)

	// CancelTransaction moves a non-terminal transaction to CANCELLED.
	CancelTransaction(ctx context.Context, actor domain.Actor, transactionID string, reason string) (*domain.Transaction, error)
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}

// AccountReaderSvc defines read operations for the chart of accounts.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// ListAccounts retrieves every account in the company's chart.
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts.
type AccountWriterSvc interface {
	// CreateAccount adds a custom account to the chart.
	CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error)

	// SeedDefaultAccounts installs the default chart for a company that has
	// no accounts yet. Idempotent: a seeded company is left untouched.
	SeedDefaultAccounts(ctx context.Context, actor domain.Actor) ([]domain.Account, error)
}

// AccountSvcFacade combines all chart-of-accounts service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
