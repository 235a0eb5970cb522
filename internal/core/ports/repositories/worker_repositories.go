package repositories

import (
	"context"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// WorkerReader defines read operations for worker payroll ledgers.
type WorkerReader interface {
	// FindWorkerByID retrieves a worker by its unique identifier.
	FindWorkerByID(ctx context.Context, companyID, workerID string) (*domain.Worker, error)

	// ListWorkers retrieves a paginated list of workers for a company.
	ListWorkers(ctx context.Context, companyID string, activeOnly bool, limit int, nextToken *string) ([]domain.Worker, *string, error)
}

// WorkerWriter defines write operations for worker payroll ledgers.
type WorkerWriter interface {
	// SaveWorker persists a new worker.
	SaveWorker(ctx context.Context, worker domain.Worker) error

	// UpdateWorker replaces the worker's profile and embedded ledgers.
	UpdateWorker(ctx context.Context, worker domain.Worker) error

	// FindWorkerByIDForUpdate retrieves a worker and locks its row for the
	// duration of the surrounding database transaction, so a settlement and a
	// concurrent attendance edit cannot interleave.
	FindWorkerByIDForUpdate(ctx context.Context, companyID, workerID string) (*domain.Worker, error)
}

// WorkerRepositoryFacade combines all worker repository interfaces.
type WorkerRepositoryFacade interface {
	WorkerReader
	WorkerWriter
}
