package services_test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	portsrepo "github.com/sitesutra/construction_erp_app/internal/core/ports/repositories"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// captureNotifier records every published event so tests can assert on the
// notification side effects of a workflow.
type captureNotifier struct {
	events []domain.Event
}

func (n *captureNotifier) Publish(_ context.Context, _ string, event domain.Event) {
	n.events = append(n.events, event)
}

func (n *captureNotifier) eventTypes() []string {
	types := make([]string, 0, len(n.events))
	for _, event := range n.events {
		types = append(types, event.Type)
	}
	return types
}

// fakeTxManager runs the function directly. The services under test treat
// the callback context as the transactional one, so passing it through is
// enough for unit tests.
type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockCounterRepository is a mock type for the CounterRepository interface
type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) Next(ctx context.Context, companyID, scope string) (int64, error) {
	args := m.Called(ctx, companyID, scope)
	return args.Get(0).(int64), args.Error(1)
}

// MockMaterialRequestRepository is a mock type for the MaterialRequestRepositoryFacade interface
type MockMaterialRequestRepository struct {
	mock.Mock
}

func (m *MockMaterialRequestRepository) FindRequestByID(ctx context.Context, companyID, requestID string) (*domain.MaterialRequest, error) {
	args := m.Called(ctx, companyID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaterialRequest), args.Error(1)
}

func (m *MockMaterialRequestRepository) ListRequests(ctx context.Context, companyID string, filter portsrepo.MaterialRequestFilter, limit int, nextToken *string) ([]domain.MaterialRequest, *string, error) {
	args := m.Called(ctx, companyID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.MaterialRequest), token, args.Error(2)
}

func (m *MockMaterialRequestRepository) SaveRequest(ctx context.Context, request domain.MaterialRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockMaterialRequestRepository) UpdateRequest(ctx context.Context, request domain.MaterialRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockMaterialRequestRepository) FindRequestByIDForUpdate(ctx context.Context, companyID, requestID string) (*domain.MaterialRequest, error) {
	args := m.Called(ctx, companyID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaterialRequest), args.Error(1)
}

// MockMaterialRepository is a mock type for the MaterialRepositoryFacade interface
type MockMaterialRepository struct {
	mock.Mock
}

func (m *MockMaterialRepository) FindMaterialByID(ctx context.Context, companyID, materialID string) (*domain.MaterialMaster, error) {
	args := m.Called(ctx, companyID, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaterialMaster), args.Error(1)
}

func (m *MockMaterialRepository) ListMaterials(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.MaterialMaster, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.MaterialMaster), token, args.Error(2)
}

func (m *MockMaterialRepository) SaveMaterial(ctx context.Context, material domain.MaterialMaster) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *MockMaterialRepository) UpdateMaterial(ctx context.Context, material domain.MaterialMaster) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

// MockStockRepository is a mock type for the StockRepositoryFacade interface
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) FindStockByMaterial(ctx context.Context, companyID, materialID string) (*domain.StockRecord, error) {
	args := m.Called(ctx, companyID, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockRecord), args.Error(1)
}

func (m *MockStockRepository) ListStock(ctx context.Context, companyID string) ([]domain.StockRecord, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockRecord), args.Error(1)
}

func (m *MockStockRepository) ListLowStock(ctx context.Context, companyID string) ([]domain.StockRecord, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockRecord), args.Error(1)
}

func (m *MockStockRepository) SaveStock(ctx context.Context, record domain.StockRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStockRepository) UpdateStock(ctx context.Context, record domain.StockRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStockRepository) FindStockByMaterialForUpdate(ctx context.Context, companyID, materialID string) (*domain.StockRecord, error) {
	args := m.Called(ctx, companyID, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockRecord), args.Error(1)
}

// MockProjectRepository is a mock type for the ProjectRepositoryFacade interface
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, companyID, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, companyID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListProjects(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Project, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Project), token, args.Error(2)
}

func (m *MockProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) AdjustBudgetFigures(ctx context.Context, companyID, projectID string, lockedDelta, spendDelta decimal.Decimal) error {
	args := m.Called(ctx, companyID, projectID, lockedDelta, spendDelta)
	return args.Error(0)
}

func (m *MockProjectRepository) FindProjectByIDForUpdate(ctx context.Context, companyID, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, companyID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

// MockTransactionRepository is a mock type for the TransactionRepositoryFacade interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, companyID string, filter portsrepo.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, companyID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Transaction), token, args.Error(2)
}

func (m *MockTransactionRepository) SumByProjectAndDirection(ctx context.Context, companyID, projectID string, direction domain.TransactionDirection) (map[domain.TransactionCategory]decimal.Decimal, error) {
	args := m.Called(ctx, companyID, projectID, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.TransactionCategory]decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, companyID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// MockVendorRepository is a mock type for the VendorRepositoryFacade interface
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) FindVendorByID(ctx context.Context, companyID, vendorID string) (*domain.Vendor, error) {
	args := m.Called(ctx, companyID, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

func (m *MockVendorRepository) ListVendors(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Vendor, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Vendor), token, args.Error(2)
}

func (m *MockVendorRepository) SaveVendor(ctx context.Context, vendor domain.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func (m *MockVendorRepository) UpdateVendor(ctx context.Context, vendor domain.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func (m *MockVendorRepository) AdjustFinancials(ctx context.Context, companyID, vendorID string, payablesDelta, advanceDelta decimal.Decimal) error {
	args := m.Called(ctx, companyID, vendorID, payablesDelta, advanceDelta)
	return args.Error(0)
}

func (m *MockVendorRepository) FindVendorByIDForUpdate(ctx context.Context, companyID, vendorID string) (*domain.Vendor, error) {
	args := m.Called(ctx, companyID, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

// MockPaymentRepository is a mock type for the PaymentRequestRepositoryFacade interface
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, companyID, paymentID string) (*domain.PaymentRequest, error) {
	args := m.Called(ctx, companyID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRepository) ListPayments(ctx context.Context, companyID string, filter portsrepo.PaymentRequestFilter, limit int, nextToken *string) ([]domain.PaymentRequest, *string, error) {
	args := m.Called(ctx, companyID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.PaymentRequest), token, args.Error(2)
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.PaymentRequest) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) UpdatePayment(ctx context.Context, payment domain.PaymentRequest) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindPaymentByIDForUpdate(ctx context.Context, companyID, paymentID string) (*domain.PaymentRequest, error) {
	args := m.Called(ctx, companyID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRequest), args.Error(1)
}

// MockWorkerRepository is a mock type for the WorkerRepositoryFacade interface
type MockWorkerRepository struct {
	mock.Mock
}

func (m *MockWorkerRepository) FindWorkerByID(ctx context.Context, companyID, workerID string) (*domain.Worker, error) {
	args := m.Called(ctx, companyID, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Worker), args.Error(1)
}

func (m *MockWorkerRepository) ListWorkers(ctx context.Context, companyID string, activeOnly bool, limit int, nextToken *string) ([]domain.Worker, *string, error) {
	args := m.Called(ctx, companyID, activeOnly, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Worker), token, args.Error(2)
}

func (m *MockWorkerRepository) SaveWorker(ctx context.Context, worker domain.Worker) error {
	args := m.Called(ctx, worker)
	return args.Error(0)
}

func (m *MockWorkerRepository) UpdateWorker(ctx context.Context, worker domain.Worker) error {
	args := m.Called(ctx, worker)
	return args.Error(0)
}

func (m *MockWorkerRepository) FindWorkerByIDForUpdate(ctx context.Context, companyID, workerID string) (*domain.Worker, error) {
	args := m.Called(ctx, companyID, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Worker), args.Error(1)
}

// MockPurchaseOrderRepository is a mock type for the PurchaseOrderRepositoryFacade interface
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindPOByID(ctx context.Context, companyID, poID string) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, companyID, poID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) ListPOs(ctx context.Context, companyID string, filter portsrepo.PurchaseOrderFilter, limit int, nextToken *string) ([]domain.PurchaseOrder, *string, error) {
	args := m.Called(ctx, companyID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.PurchaseOrder), token, args.Error(2)
}

func (m *MockPurchaseOrderRepository) SavePO(ctx context.Context, po domain.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) UpdatePO(ctx context.Context, po domain.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) FindPOByIDForUpdate(ctx context.Context, companyID, poID string) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, companyID, poID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

// MockAccountRepository is a mock implementation of AccountRepositoryFacade.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	args := m.Called(ctx, accounts)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
