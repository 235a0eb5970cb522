package repositories

import (
	"context"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// PaymentRequestReader defines read operations for payment requests.
type PaymentRequestReader interface {
	// FindPaymentByID retrieves a payment request by its unique identifier.
	FindPaymentByID(ctx context.Context, companyID, paymentID string) (*domain.PaymentRequest, error)

	// ListPayments retrieves a paginated list of payment requests for a
	// company, optionally filtered.
	ListPayments(ctx context.Context, companyID string, filter PaymentRequestFilter, limit int, nextToken *string) ([]domain.PaymentRequest, *string, error)
}

// PaymentRequestFilter narrows a payment request listing.
type PaymentRequestFilter struct {
	ProjectID *string
	VendorID  *string
	Status    *domain.PaymentRequestStatus
}

// PaymentRequestWriter defines write operations for payment requests.
type PaymentRequestWriter interface {
	// SavePayment persists a new payment request.
	SavePayment(ctx context.Context, payment domain.PaymentRequest) error

	// UpdatePayment replaces the mutable fields of a request (status,
	// ledgers, payment details, timeline).
	UpdatePayment(ctx context.Context, payment domain.PaymentRequest) error

	// FindPaymentByIDForUpdate retrieves a request and locks its row for the
	// duration of the surrounding database transaction.
	FindPaymentByIDForUpdate(ctx context.Context, companyID, paymentID string) (*domain.PaymentRequest, error)
}

// PaymentRequestRepositoryFacade combines all payment request repository interfaces.
type PaymentRequestRepositoryFacade interface {
	PaymentRequestReader
	PaymentRequestWriter
}
