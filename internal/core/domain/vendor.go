package domain

import (
	"github.com/shopspring/decimal"
)

// VendorCategory classifies what a vendor supplies.
type VendorCategory string

const (
	VendorMaterial      VendorCategory = "MATERIAL"
	VendorService       VendorCategory = "SERVICE"
	VendorEquipment     VendorCategory = "EQUIPMENT"
	VendorSubcontractor VendorCategory = "SUBCONTRACTOR"
)

// ContactPerson is a vendor's primary contact.
type ContactPerson struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// VendorFinancials tracks the credit relationship with a vendor.
// OutstandingPayables grows when a purchase order is issued and is the figure
// checked against CreditLimit at PO creation.
type VendorFinancials struct {
	CreditLimit         decimal.Decimal `json:"creditLimit"`
	OutstandingPayables decimal.Decimal `json:"outstandingPayables"`
	PaymentTerms        string          `json:"paymentTerms,omitempty"`
	AdvancePaid         decimal.Decimal `json:"advancePaid"`
}

// Vendor is a supplier registered with one company.
type Vendor struct {
	VendorID      string           `json:"vendorID"` // Primary key (UUID)
	CompanyID     string           `json:"companyID"`
	Name          string           `json:"name"`
	Category      VendorCategory   `json:"category"`
	GSTNumber     string           `json:"gstNumber,omitempty"`
	PANNumber     string           `json:"panNumber,omitempty"`
	Contact       ContactPerson    `json:"contact"`
	Financials    VendorFinancials `json:"financials"`
	IsBlacklisted bool             `json:"isBlacklisted"`
	AuditFields
}

// CanAccommodate reports whether an additional liability of amount stays
// within the vendor's credit limit. A zero credit limit means unlimited.
func (v *Vendor) CanAccommodate(amount decimal.Decimal) bool {
	if v.Financials.CreditLimit.IsZero() {
		return true
	}
	return v.Financials.OutstandingPayables.Add(amount).LessThanOrEqual(v.Financials.CreditLimit)
}
