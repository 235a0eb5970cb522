package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager         TransactionManager
	CounterRepo       CounterRepository
	TransactionRepo   TransactionRepositoryFacade
	AccountRepo       AccountRepositoryFacade
	StockRepo         StockRepositoryFacade
	MaterialRepo      MaterialRepositoryFacade
	MaterialReqRepo   MaterialRequestRepositoryFacade
	PurchaseOrderRepo PurchaseOrderRepositoryFacade
	PaymentRepo       PaymentRequestRepositoryFacade
	WorkerRepo        WorkerRepositoryFacade
	ProjectRepo       ProjectRepositoryFacade
	VendorRepo        VendorRepositoryFacade
}
