package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// TransactionReader defines read operations for ledger transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by its unique identifier,
	// scoped to the company.
	FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a paginated list of transactions for a
	// company using token-based pagination, optionally filtered.
	ListTransactions(ctx context.Context, companyID string, filter TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// SumByProjectAndDirection totals settled transaction amounts for a
	// project in one direction, grouped by category.
	SumByProjectAndDirection(ctx context.Context, companyID, projectID string, direction domain.TransactionDirection) (map[domain.TransactionCategory]decimal.Decimal, error)
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	Direction *domain.TransactionDirection
	Category  *domain.TransactionCategory
	ProjectID *string
	VendorID  *string
	Status    *domain.TransactionStatus
}

// TransactionWriter defines write operations for ledger transactions.
type TransactionWriter interface {
	// SaveTransaction persists a new transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction replaces mutable fields (status, timeline, approver).
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error

	// FindTransactionByIDForUpdate retrieves a transaction and locks its row
	// for the duration of the surrounding database transaction.
	FindTransactionByIDForUpdate(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error)
}

// TransactionRepositoryFacade combines all ledger transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
