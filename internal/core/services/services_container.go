package services

import (
	portsrepo "github.com/sitesutra/construction_erp_app/internal/core/ports/repositories"
	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider, notifier portssvc.Notifier) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.TxManager, repos.AccountRepo, notifier)
	container.Ledger = NewLedgerService(repos.TxManager, repos.CounterRepo, repos.TransactionRepo, repos.AccountRepo, repos.ProjectRepo, repos.VendorRepo, notifier)
	container.Stock = NewStockService(repos.TxManager, repos.StockRepo, repos.MaterialRepo, notifier)
	container.Material = NewMaterialService(repos.MaterialRepo, notifier)
	container.MaterialRequest = NewMaterialRequestService(repos.TxManager, repos.CounterRepo, repos.MaterialReqRepo, repos.MaterialRepo, repos.ProjectRepo, repos.StockRepo, repos.TransactionRepo, notifier)
	container.PurchaseOrder = NewPurchaseOrderService(repos.TxManager, repos.PurchaseOrderRepo, repos.VendorRepo, repos.ProjectRepo, repos.StockRepo, notifier)
	container.Payment = NewPaymentService(repos.TxManager, repos.CounterRepo, repos.PaymentRepo, repos.VendorRepo, repos.ProjectRepo, repos.TransactionRepo, notifier)
	container.Payroll = NewPayrollService(repos.TxManager, repos.CounterRepo, repos.WorkerRepo, repos.ProjectRepo, repos.TransactionRepo, notifier)
	container.Project = NewProjectService(repos.ProjectRepo, repos.PaymentRepo, repos.PurchaseOrderRepo, notifier)
	container.Vendor = NewVendorService(repos.VendorRepo, notifier)

	return container
}
