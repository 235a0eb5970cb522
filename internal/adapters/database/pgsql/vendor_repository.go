package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sitesutra/construction_erp_app/internal/apperrors"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	portsrepo "github.com/sitesutra/construction_erp_app/internal/core/ports/repositories"
)

// PgxVendorRepository persists vendors and their credit ledgers.
type PgxVendorRepository struct {
	pool *pgxpool.Pool
}

// NewPgxVendorRepository creates a new repository for vendor data.
func NewPgxVendorRepository(pool *pgxpool.Pool) portsrepo.VendorRepositoryFacade {
	return &PgxVendorRepository{pool: pool}
}

var _ portsrepo.VendorRepositoryFacade = (*PgxVendorRepository)(nil)

const vendorColumns = `
	vendor_id, company_id, name, category, gst_number, pan_number, contact,
	credit_limit, outstanding_payables, payment_terms, advance_paid,
	is_blacklisted, created_at, created_by, last_updated_at, last_updated_by
`

func scanVendor(row pgx.Row) (*domain.Vendor, error) {
	var vendor domain.Vendor
	var contactRaw []byte

	err := row.Scan(
		&vendor.VendorID,
		&vendor.CompanyID,
		&vendor.Name,
		&vendor.Category,
		&vendor.GSTNumber,
		&vendor.PANNumber,
		&contactRaw,
		&vendor.Financials.CreditLimit,
		&vendor.Financials.OutstandingPayables,
		&vendor.Financials.PaymentTerms,
		&vendor.Financials.AdvancePaid,
		&vendor.IsBlacklisted,
		&vendor.CreatedAt,
		&vendor.CreatedBy,
		&vendor.LastUpdatedAt,
		&vendor.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSONB(contactRaw, &vendor.Contact); err != nil {
		return nil, err
	}
	return &vendor, nil
}

// SaveVendor persists a new vendor.
func (r *PgxVendorRepository) SaveVendor(ctx context.Context, vendor domain.Vendor) error {
	contactRaw, err := marshalJSONB(vendor.Contact)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO vendors (` + vendorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = querierFrom(ctx, r.pool).Exec(ctx, query,
		vendor.VendorID,
		vendor.CompanyID,
		vendor.Name,
		vendor.Category,
		vendor.GSTNumber,
		vendor.PANNumber,
		contactRaw,
		vendor.Financials.CreditLimit,
		vendor.Financials.OutstandingPayables,
		vendor.Financials.PaymentTerms,
		vendor.Financials.AdvancePaid,
		vendor.IsBlacklisted,
		vendor.CreatedAt,
		vendor.CreatedBy,
		vendor.LastUpdatedAt,
		vendor.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert vendor %s: %w", vendor.VendorID, err)
	}
	return nil
}

// UpdateVendor replaces mutable vendor fields. The payables and advance
// columns are deliberately absent; they move only through AdjustFinancials.
func (r *PgxVendorRepository) UpdateVendor(ctx context.Context, vendor domain.Vendor) error {
	contactRaw, err := marshalJSONB(vendor.Contact)
	if err != nil {
		return err
	}

	query := `
		UPDATE vendors
		SET name = $3, category = $4, gst_number = $5, pan_number = $6,
		    contact = $7, credit_limit = $8, payment_terms = $9,
		    is_blacklisted = $10, last_updated_at = $11, last_updated_by = $12
		WHERE company_id = $1 AND vendor_id = $2;
	`
	tag, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		vendor.CompanyID,
		vendor.VendorID,
		vendor.Name,
		vendor.Category,
		vendor.GSTNumber,
		vendor.PANNumber,
		contactRaw,
		vendor.Financials.CreditLimit,
		vendor.Financials.PaymentTerms,
		vendor.IsBlacklisted,
		vendor.LastUpdatedAt,
		vendor.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update vendor %s: %w", vendor.VendorID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AdjustFinancials atomically adds deltas to the vendor's outstanding
// payables and advance paid.
func (r *PgxVendorRepository) AdjustFinancials(ctx context.Context, companyID, vendorID string, payablesDelta, advanceDelta decimal.Decimal) error {
	query := `
		UPDATE vendors
		SET outstanding_payables = outstanding_payables + $3, advance_paid = advance_paid + $4
		WHERE company_id = $1 AND vendor_id = $2;
	`
	tag, err := querierFrom(ctx, r.pool).Exec(ctx, query, companyID, vendorID, payablesDelta, advanceDelta)
	if err != nil {
		return fmt.Errorf("failed to adjust financials for vendor %s: %w", vendorID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindVendorByID retrieves a vendor by its unique identifier.
func (r *PgxVendorRepository) FindVendorByID(ctx context.Context, companyID, vendorID string) (*domain.Vendor, error) {
	return r.findVendor(ctx, companyID, vendorID, false)
}

// FindVendorByIDForUpdate retrieves a vendor and locks its row so the credit
// check and the payables increment serialize.
func (r *PgxVendorRepository) FindVendorByIDForUpdate(ctx context.Context, companyID, vendorID string) (*domain.Vendor, error) {
	return r.findVendor(ctx, companyID, vendorID, true)
}

func (r *PgxVendorRepository) findVendor(ctx context.Context, companyID, vendorID string, forUpdate bool) (*domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE company_id = $1 AND vendor_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	vendor, err := scanVendor(querierFrom(ctx, r.pool).QueryRow(ctx, query, companyID, vendorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find vendor %s: %w", vendorID, err)
	}
	return vendor, nil
}

// ListVendors retrieves a page of vendors, newest first.
func (r *PgxVendorRepository) ListVendors(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Vendor, *string, error) {
	token, err := decodePageToken(nextToken)
	if err != nil {
		return nil, nil, err
	}

	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE company_id = $1`
	args := []any{companyID}
	if token != nil {
		args = append(args, token.CreatedAt, token.ID)
		query += fmt.Sprintf(" AND (created_at, vendor_id) < ($%d, $%d)", len(args)-1, len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, vendor_id DESC LIMIT $%d", len(args))

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query vendors: %w", err)
	}
	defer rows.Close()

	vendors := []domain.Vendor{}
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan vendor row: %w", err)
		}
		vendors = append(vendors, *vendor)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating vendor rows: %w", err)
	}

	var next *string
	if len(vendors) == limit {
		last := vendors[len(vendors)-1]
		next = encodePageToken(last.CreatedAt, last.VendorID)
	}
	return vendors, next, nil
}
