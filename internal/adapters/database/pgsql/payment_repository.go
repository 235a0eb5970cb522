package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitesutra/construction_erp_app/internal/apperrors"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	portsrepo "github.com/sitesutra/construction_erp_app/internal/core/ports/repositories"
)

// PgxPaymentRepository persists payment requests.
type PgxPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPgxPaymentRepository creates a new repository for payment requests.
func NewPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRequestRepositoryFacade {
	return &PgxPaymentRepository{pool: pool}
}

var _ portsrepo.PaymentRequestRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `
	payment_id, request_no, company_id, vendor_id, project_id, amount, purpose,
	category, status, advance, retention, invoice, payment, requested_by,
	verified_by, released_by, timeline, created_at, created_by,
	last_updated_at, last_updated_by
`

func scanPayment(row pgx.Row) (*domain.PaymentRequest, error) {
	var payment domain.PaymentRequest
	var advanceRaw, retentionRaw, invoiceRaw, paymentRaw, timelineRaw []byte

	err := row.Scan(
		&payment.PaymentID,
		&payment.RequestNo,
		&payment.CompanyID,
		&payment.VendorID,
		&payment.ProjectID,
		&payment.Amount,
		&payment.Purpose,
		&payment.Category,
		&payment.Status,
		&advanceRaw,
		&retentionRaw,
		&invoiceRaw,
		&paymentRaw,
		&payment.RequestedBy,
		&payment.VerifiedBy,
		&payment.ReleasedBy,
		&timelineRaw,
		&payment.CreatedAt,
		&payment.CreatedBy,
		&payment.LastUpdatedAt,
		&payment.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSONB(advanceRaw, &payment.Advance); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(retentionRaw, &payment.Retention); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(invoiceRaw, &payment.Invoice); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(paymentRaw, &payment.Payment); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(timelineRaw, &payment.Timeline); err != nil {
		return nil, err
	}
	return &payment, nil
}

// SavePayment persists a new payment request.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.PaymentRequest) error {
	advanceRaw, err := marshalJSONB(payment.Advance)
	if err != nil {
		return err
	}
	retentionRaw, err := marshalJSONB(payment.Retention)
	if err != nil {
		return err
	}
	invoiceRaw, err := marshalJSONB(payment.Invoice)
	if err != nil {
		return err
	}
	paymentRaw, err := marshalJSONB(payment.Payment)
	if err != nil {
		return err
	}
	timelineRaw, err := marshalJSONB(payment.Timeline)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO payment_requests (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err = querierFrom(ctx, r.pool).Exec(ctx, query,
		payment.PaymentID,
		payment.RequestNo,
		payment.CompanyID,
		payment.VendorID,
		payment.ProjectID,
		payment.Amount,
		payment.Purpose,
		payment.Category,
		payment.Status,
		advanceRaw,
		retentionRaw,
		invoiceRaw,
		paymentRaw,
		payment.RequestedBy,
		payment.VerifiedBy,
		payment.ReleasedBy,
		timelineRaw,
		payment.CreatedAt,
		payment.CreatedBy,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment request %s: %w", payment.PaymentID, err)
	}
	return nil
}

// UpdatePayment replaces the mutable fields of a request.
func (r *PgxPaymentRepository) UpdatePayment(ctx context.Context, payment domain.PaymentRequest) error {
	advanceRaw, err := marshalJSONB(payment.Advance)
	if err != nil {
		return err
	}
	retentionRaw, err := marshalJSONB(payment.Retention)
	if err != nil {
		return err
	}
	paymentRaw, err := marshalJSONB(payment.Payment)
	if err != nil {
		return err
	}
	timelineRaw, err := marshalJSONB(payment.Timeline)
	if err != nil {
		return err
	}

	query := `
		UPDATE payment_requests
		SET status = $3, advance = $4, retention = $5, payment = $6,
		    verified_by = $7, released_by = $8, timeline = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE company_id = $1 AND payment_id = $2;
	`
	tag, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		payment.CompanyID,
		payment.PaymentID,
		payment.Status,
		advanceRaw,
		retentionRaw,
		paymentRaw,
		payment.VerifiedBy,
		payment.ReleasedBy,
		timelineRaw,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment request %s: %w", payment.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindPaymentByID retrieves a payment request by its unique identifier.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, companyID, paymentID string) (*domain.PaymentRequest, error) {
	return r.findPayment(ctx, companyID, paymentID, false)
}

// FindPaymentByIDForUpdate retrieves a request and locks its row.
func (r *PgxPaymentRepository) FindPaymentByIDForUpdate(ctx context.Context, companyID, paymentID string) (*domain.PaymentRequest, error) {
	return r.findPayment(ctx, companyID, paymentID, true)
}

func (r *PgxPaymentRepository) findPayment(ctx context.Context, companyID, paymentID string, forUpdate bool) (*domain.PaymentRequest, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_requests WHERE company_id = $1 AND payment_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	payment, err := scanPayment(querierFrom(ctx, r.pool).QueryRow(ctx, query, companyID, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment request %s: %w", paymentID, err)
	}
	return payment, nil
}

// ListPayments retrieves a filtered page of payment requests, newest first.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, companyID string, filter portsrepo.PaymentRequestFilter, limit int, nextToken *string) ([]domain.PaymentRequest, *string, error) {
	token, err := decodePageToken(nextToken)
	if err != nil {
		return nil, nil, err
	}

	query := `SELECT ` + paymentColumns + ` FROM payment_requests WHERE company_id = $1`
	args := []any{companyID}

	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	if filter.VendorID != nil {
		args = append(args, *filter.VendorID)
		query += fmt.Sprintf(" AND vendor_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if token != nil {
		args = append(args, token.CreatedAt, token.ID)
		query += fmt.Sprintf(" AND (created_at, payment_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, payment_id DESC LIMIT $%d", len(args))

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query payment requests: %w", err)
	}
	defer rows.Close()

	payments := []domain.PaymentRequest{}
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan payment request row: %w", err)
		}
		payments = append(payments, *payment)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating payment request rows: %w", err)
	}

	var next *string
	if len(payments) == limit {
		last := payments[len(payments)-1]
		next = encodePageToken(last.CreatedAt, last.PaymentID)
	}
	return payments, next, nil
}
