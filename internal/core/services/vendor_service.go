package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	portsrepo "github.com/sitesutra/construction_erp_app/internal/core/ports/repositories"
	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/dto"
)

// vendorService manages the vendor registry.
type vendorService struct {
	BaseService
	vendorRepo portsrepo.VendorRepositoryFacade
}

// NewVendorService creates a new vendor registry service.
func NewVendorService(vendorRepo portsrepo.VendorRepositoryFacade, notifier portssvc.Notifier) portssvc.VendorSvcFacade {
	return &vendorService{
		BaseService: BaseService{Notifier: notifier},
		vendorRepo:  vendorRepo,
	}
}

var _ portssvc.VendorSvcFacade = (*vendorService)(nil)

func (s *vendorService) GetVendorByID(ctx context.Context, companyID, vendorID string) (*domain.Vendor, error) {
	return s.vendorRepo.FindVendorByID(ctx, companyID, vendorID)
}

func (s *vendorService) ListVendors(ctx context.Context, companyID string, limit int, nextToken *string) (*dto.ListVendorsResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	vendors, next, err := s.vendorRepo.ListVendors(ctx, companyID, limit, nextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListVendorsResponse{
		Vendors:   dto.ToVendorResponses(vendors),
		NextToken: next,
	}, nil
}

func (s *vendorService) CreateVendor(ctx context.Context, actor domain.Actor, req dto.CreateVendorRequest) (*domain.Vendor, error) {
	logger := s.GetLogger(ctx)

	now := time.Now().UTC()
	vendor := domain.Vendor{
		VendorID:  uuid.NewString(),
		CompanyID: actor.CompanyID,
		Name:      req.Name,
		Category:  req.Category,
		GSTNumber: req.GSTNumber,
		PANNumber: req.PANNumber,
		Contact:   req.Contact,
		Financials: domain.VendorFinancials{
			CreditLimit:  req.CreditLimit,
			PaymentTerms: req.PaymentTerms,
		},
		AuditFields: newAuditFields(actor, now),
	}

	if err := s.vendorRepo.SaveVendor(ctx, vendor); err != nil {
		logger.Warn("Failed to create vendor", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, err
	}

	logger.Info("Vendor created", slog.String("vendor_id", vendor.VendorID), slog.String("name", vendor.Name))
	return &vendor, nil
}

// UpdateVendor edits profile and credit terms. Outstanding payables and
// advance paid never pass through here.
func (s *vendorService) UpdateVendor(ctx context.Context, actor domain.Actor, vendorID string, req dto.UpdateVendorRequest) (*domain.Vendor, error) {
	vendor, err := s.vendorRepo.FindVendorByID(ctx, actor.CompanyID, vendorID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		vendor.Name = *req.Name
	}
	if req.Category != nil {
		vendor.Category = *req.Category
	}
	if req.GSTNumber != nil {
		vendor.GSTNumber = *req.GSTNumber
	}
	if req.PANNumber != nil {
		vendor.PANNumber = *req.PANNumber
	}
	if req.Contact != nil {
		vendor.Contact = *req.Contact
	}
	if req.CreditLimit != nil {
		vendor.Financials.CreditLimit = *req.CreditLimit
	}
	if req.PaymentTerms != nil {
		vendor.Financials.PaymentTerms = *req.PaymentTerms
	}
	if req.IsBlacklisted != nil {
		vendor.IsBlacklisted = *req.IsBlacklisted
	}
	touchAudit(&vendor.AuditFields, actor, time.Now().UTC())

	if err := s.vendorRepo.UpdateVendor(ctx, *vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}
