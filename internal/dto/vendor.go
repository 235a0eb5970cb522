package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// CreateVendorRequest defines the data needed to register a vendor.
type CreateVendorRequest struct {
	Name         string                `json:"name" binding:"required"`
	Category     domain.VendorCategory `json:"category" binding:"required,oneof=MATERIAL SERVICE EQUIPMENT SUBCONTRACTOR"`
	GSTNumber    string                `json:"gstNumber"`
	PANNumber    string                `json:"panNumber"`
	Contact      domain.ContactPerson  `json:"contact"`
	CreditLimit  decimal.Decimal       `json:"creditLimit"`
	PaymentTerms string                `json:"paymentTerms"`
}

// UpdateVendorRequest defines the fields allowed to change on a vendor.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateVendorRequest struct {
	Name          *string                `json:"name"`
	Category      *domain.VendorCategory `json:"category"`
	GSTNumber     *string                `json:"gstNumber"`
	PANNumber     *string                `json:"panNumber"`
	Contact       *domain.ContactPerson  `json:"contact"`
	CreditLimit   *decimal.Decimal       `json:"creditLimit"`
	PaymentTerms  *string                `json:"paymentTerms"`
	IsBlacklisted *bool                  `json:"isBlacklisted"`
}

// VendorResponse defines the data returned for a vendor.
type VendorResponse struct {
	VendorID      string                  `json:"vendorID"`
	Name          string                  `json:"name"`
	Category      domain.VendorCategory   `json:"category"`
	GSTNumber     string                  `json:"gstNumber,omitempty"`
	PANNumber     string                  `json:"panNumber,omitempty"`
	Contact       domain.ContactPerson    `json:"contact"`
	Financials    domain.VendorFinancials `json:"financials"`
	IsBlacklisted bool                    `json:"isBlacklisted"`
	CreatedAt     time.Time               `json:"createdAt"`
}

// ListVendorsResponse is a page of vendors plus the token for the next page.
type ListVendorsResponse struct {
	Vendors   []VendorResponse `json:"vendors"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ToVendorResponse converts a domain.Vendor to its response form.
func ToVendorResponse(v *domain.Vendor) VendorResponse {
	return VendorResponse{
		VendorID:      v.VendorID,
		Name:          v.Name,
		Category:      v.Category,
		GSTNumber:     v.GSTNumber,
		PANNumber:     v.PANNumber,
		Contact:       v.Contact,
		Financials:    v.Financials,
		IsBlacklisted: v.IsBlacklisted,
		CreatedAt:     v.CreatedAt,
	}
}

// ToVendorResponses converts a slice of vendors.
func ToVendorResponses(vendors []domain.Vendor) []VendorResponse {
	responses := make([]VendorResponse, len(vendors))
	for i := range vendors {
		responses[i] = ToVendorResponse(&vendors[i])
	}
	return responses
}
