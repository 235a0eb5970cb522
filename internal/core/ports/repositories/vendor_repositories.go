package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// VendorReader defines read operations for vendors.
type VendorReader interface {
	// FindVendorByID retrieves a vendor by its unique identifier.
	FindVendorByID(ctx context.Context, companyID, vendorID string) (*domain.Vendor, error)

	// ListVendors retrieves a paginated list of vendors for a company.
	ListVendors(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Vendor, *string, error)
}

// VendorWriter defines write operations for vendors.
type VendorWriter interface {
	// SaveVendor persists a new vendor.
	SaveVendor(ctx context.Context, vendor domain.Vendor) error

	// UpdateVendor replaces mutable vendor fields.
	UpdateVendor(ctx context.Context, vendor domain.Vendor) error

	// AdjustFinancials atomically adds the given deltas to the vendor's
	// outstanding payables and advance paid. Deltas may be negative.
	AdjustFinancials(ctx context.Context, companyID, vendorID string, payablesDelta, advanceDelta decimal.Decimal) error

	// FindVendorByIDForUpdate retrieves a vendor and locks its row for the
	// duration of the surrounding database transaction, so the credit check
	// and the payables increment serialize.
	FindVendorByIDForUpdate(ctx context.Context, companyID, vendorID string) (*domain.Vendor, error)
}

// VendorRepositoryFacade combines all vendor repository interfaces.
type VendorRepositoryFacade interface {
	VendorReader
	VendorWriter
}
