package services

import (
	"context"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	"github.com/sitesutra/construction_erp_app/internal/dto"
)

// VendorReaderSvc defines read operations for vendors.
type VendorReaderSvc interface {
	// GetVendorByID retrieves a specific vendor by its ID.
	GetVendorByID(ctx context.Context, companyID, vendorID string) (*domain.Vendor, error)

	// ListVendors retrieves a paginated list of vendors.
	ListVendors(ctx context.Context, companyID string, limit int, nextToken *string) (*dto.ListVendorsResponse, error)
}

// VendorWriterSvc defines write operations for vendors.
type VendorWriterSvc interface {
	// CreateVendor registers a new vendor.
	CreateVendor(ctx context.Context, actor domain.Actor, req dto.CreateVendorRequest) (*domain.Vendor, error)

	// UpdateVendor edits vendor profile and credit terms. Outstanding
	// payables and advance paid move only through the finance workflows.
	UpdateVendor(ctx context.Context, actor domain.Actor, vendorID string, req dto.UpdateVendorRequest) (*domain.Vendor, error)
}

// VendorSvcFacade combines all vendor service interfaces.
type VendorSvcFacade interface {
	VendorReaderSvc
	VendorWriterSvc
}
