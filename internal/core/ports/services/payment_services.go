package services

import (
	"context"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	"github.com/sitesutra/construction_erp_app/internal/dto"
)

// PaymentReaderSvc defines read operations for payment requests.
type PaymentReaderSvc interface {
	// GetPaymentByID retrieves a specific payment request by its ID.
	GetPaymentByID(ctx context.Context, companyID, paymentID string) (*domain.PaymentRequest, error)

	// ListPayments retrieves a paginated, filtered list of payment requests.
	ListPayments(ctx context.Context, companyID string, params dto.ListPaymentRequestsParams) (*dto.ListPaymentRequestsResponse, error)
}

// PaymentWriterSvc defines the payment request workflow transitions.
type PaymentWriterSvc interface {
	// CreatePayment opens a new request in PENDING with an assigned number
	// and locks its amount against the project budget in the same database
	// transaction.
	CreatePayment(ctx context.Context, actor domain.Actor, req dto.CreatePaymentRequestRequest) (*domain.PaymentRequest, error)

	// VerifyPayment moves PENDING to VERIFIED.
	VerifyPayment(ctx context.Context, actor domain.Actor, paymentID string, note string) (*domain.PaymentRequest, error)

	// ReleasePayment moves VERIFIED to RELEASED: the lock converts to actual
	// spend, the vendor's payables shrink, and a settled expense entry is
	// posted, all atomically.
	ReleasePayment(ctx context.Context, actor domain.Actor, paymentID string, req dto.ReleasePaymentRequest) (*domain.PaymentRequest, error)

	// RejectPayment moves PENDING or VERIFIED to REJECTED and releases the
	// budget lock.
	RejectPayment(ctx context.Context, actor domain.Actor, paymentID string, note string) (*domain.PaymentRequest, error)
}

// PaymentSvcFacade combines all payment request service interfaces.
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
