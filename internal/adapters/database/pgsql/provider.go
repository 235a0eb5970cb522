package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/sitesutra/construction_erp_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository onto one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:         NewPgxTxManager(pool),
		CounterRepo:       NewPgxCounterRepository(pool),
		TransactionRepo:   NewPgxTransactionRepository(pool),
		AccountRepo:       NewPgxAccountRepository(pool),
		StockRepo:         NewPgxStockRepository(pool),
		MaterialRepo:      NewPgxMaterialRepository(pool),
		MaterialReqRepo:   NewPgxMaterialRequestRepository(pool),
		PurchaseOrderRepo: NewPgxPurchaseOrderRepository(pool),
		PaymentRepo:       NewPgxPaymentRepository(pool),
		WorkerRepo:        NewPgxWorkerRepository(pool),
		ProjectRepo:       NewPgxProjectRepository(pool),
		VendorRepo:        NewPgxVendorRepository(pool),
	}
}
