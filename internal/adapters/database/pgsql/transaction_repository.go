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

// PgxTransactionRepository persists ledger transactions.
type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewPgxTransactionRepository creates a new repository for ledger transactions.
func NewPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{pool: pool}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `
	transaction_id, transaction_no, company_id, direction, category, amount,
	project_id, vendor_id, material_request_id, boq_item, gst, payment_mode,
	reference_id, description, status, approved_by, ledger_date, attachments,
	timeline, created_at, created_by, last_updated_at, last_updated_by
`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	var gstRaw, attachmentsRaw, timelineRaw []byte

	err := row.Scan(
		&txn.TransactionID,
		&txn.TransactionNo,
		&txn.CompanyID,
		&txn.Direction,
		&txn.Category,
		&txn.Amount,
		&txn.ProjectID,
		&txn.VendorID,
		&txn.MaterialRequestID,
		&txn.BOQItem,
		&gstRaw,
		&txn.PaymentMode,
		&txn.ReferenceID,
		&txn.Description,
		&txn.Status,
		&txn.ApprovedBy,
		&txn.LedgerDate,
		&attachmentsRaw,
		&timelineRaw,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSONB(gstRaw, &txn.GST); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(attachmentsRaw, &txn.Attachments); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(timelineRaw, &txn.Timeline); err != nil {
		return nil, err
	}
	return &txn, nil
}

// SaveTransaction persists a new ledger transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	gstRaw, err := marshalJSONB(txn.GST)
	if err != nil {
		return err
	}
	attachmentsRaw, err := marshalJSONB(txn.Attachments)
	if err != nil {
		return err
	}
	timelineRaw, err := marshalJSONB(txn.Timeline)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err = querierFrom(ctx, r.pool).Exec(ctx, query,
		txn.TransactionID,
		txn.TransactionNo,
		txn.CompanyID,
		txn.Direction,
		txn.Category,
		txn.Amount,
		txn.ProjectID,
		txn.VendorID,
		txn.MaterialRequestID,
		txn.BOQItem,
		gstRaw,
		txn.PaymentMode,
		txn.ReferenceID,
		txn.Description,
		txn.Status,
		txn.ApprovedBy,
		txn.LedgerDate,
		attachmentsRaw,
		timelineRaw,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// UpdateTransaction replaces the mutable fields of a transaction.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	attachmentsRaw, err := marshalJSONB(txn.Attachments)
	if err != nil {
		return err
	}
	timelineRaw, err := marshalJSONB(txn.Timeline)
	if err != nil {
		return err
	}

	query := `
		UPDATE transactions
		SET status = $3, approved_by = $4, attachments = $5, timeline = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE company_id = $1 AND transaction_id = $2;
	`
	tag, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		txn.CompanyID,
		txn.TransactionID,
		txn.Status,
		txn.ApprovedBy,
		attachmentsRaw,
		timelineRaw,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindTransactionByID retrieves a transaction scoped to the company.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error) {
	return r.findTransaction(ctx, companyID, transactionID, false)
}

// FindTransactionByIDForUpdate retrieves a transaction and locks its row.
func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error) {
	return r.findTransaction(ctx, companyID, transactionID, true)
}

func (r *PgxTransactionRepository) findTransaction(ctx context.Context, companyID, transactionID string, forUpdate bool) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE company_id = $1 AND transaction_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	txn, err := scanTransaction(querierFrom(ctx, r.pool).QueryRow(ctx, query, companyID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListTransactions retrieves a filtered page of transactions, newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, companyID string, filter portsrepo.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	token, err := decodePageToken(nextToken)
	if err != nil {
		return nil, nil, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE company_id = $1`
	args := []any{companyID}

	if filter.Direction != nil {
		args = append(args, *filter.Direction)
		query += fmt.Sprintf(" AND direction = $%d", len(args))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
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
		query += fmt.Sprintf(" AND (created_at, transaction_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, transaction_id DESC LIMIT $%d", len(args))

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var next *string
	if len(transactions) == limit {
		last := transactions[len(transactions)-1]
		next = encodePageToken(last.CreatedAt, last.TransactionID)
	}
	return transactions, next, nil
}

// SumByProjectAndDirection totals settled amounts per category for a project.
func (r *PgxTransactionRepository) SumByProjectAndDirection(ctx context.Context, companyID, projectID string, direction domain.TransactionDirection) (map[domain.TransactionCategory]decimal.Decimal, error) {
	query := `
		SELECT category, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE company_id = $1 AND project_id = $2 AND direction = $3 AND status = $4
		GROUP BY category;
	`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, companyID, projectID, direction, domain.TxnSettled)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions for project %s: %w", projectID, err)
	}
	defer rows.Close()

	sums := make(map[domain.TransactionCategory]decimal.Decimal)
	for rows.Next() {
		var category domain.TransactionCategory
		var total decimal.Decimal
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("failed to scan transaction sum row: %w", err)
		}
		sums[category] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction sum rows: %w", err)
	}
	return sums, nil
}
