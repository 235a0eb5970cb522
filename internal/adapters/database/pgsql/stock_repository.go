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

// PgxStockRepository persists stock records, one row per material per company.
type PgxStockRepository struct {
	pool *pgxpool.Pool
}

// NewPgxStockRepository creates a new repository for stock data.
func NewPgxStockRepository(pool *pgxpool.Pool) portsrepo.StockRepositoryFacade {
	return &PgxStockRepository{pool: pool}
}

var _ portsrepo.StockRepositoryFacade = (*PgxStockRepository)(nil)

const stockColumns = `
	stock_id, company_id, material_id, total_stock, available_stock,
	reserved_stock, damaged_stock, wastage, reorder_level, batches, timeline,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanStock(row pgx.Row) (*domain.StockRecord, error) {
	var record domain.StockRecord
	var batchesRaw, timelineRaw []byte

	err := row.Scan(
		&record.StockID,
		&record.CompanyID,
		&record.MaterialID,
		&record.TotalStock,
		&record.AvailableStock,
		&record.ReservedStock,
		&record.DamagedStock,
		&record.Wastage,
		&record.ReorderLevel,
		&batchesRaw,
		&timelineRaw,
		&record.CreatedAt,
		&record.CreatedBy,
		&record.LastUpdatedAt,
		&record.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSONB(batchesRaw, &record.Batches); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(timelineRaw, &record.Timeline); err != nil {
		return nil, err
	}
	return &record, nil
}

// SaveStock persists a new stock record.
func (r *PgxStockRepository) SaveStock(ctx context.Context, record domain.StockRecord) error {
	batchesRaw, err := marshalJSONB(record.Batches)
	if err != nil {
		return err
	}
	timelineRaw, err := marshalJSONB(record.Timeline)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO stock_records (` + stockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = querierFrom(ctx, r.pool).Exec(ctx, query,
		record.StockID,
		record.CompanyID,
		record.MaterialID,
		record.TotalStock,
		record.AvailableStock,
		record.ReservedStock,
		record.DamagedStock,
		record.Wastage,
		record.ReorderLevel,
		batchesRaw,
		timelineRaw,
		record.CreatedAt,
		record.CreatedBy,
		record.LastUpdatedAt,
		record.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert stock record %s: %w", record.StockID, err)
	}
	return nil
}

// UpdateStock replaces the counters, batches and timeline of a record.
func (r *PgxStockRepository) UpdateStock(ctx context.Context, record domain.StockRecord) error {
	batchesRaw, err := marshalJSONB(record.Batches)
	if err != nil {
		return err
	}
	timelineRaw, err := marshalJSONB(record.Timeline)
	if err != nil {
		return err
	}

	query := `
		UPDATE stock_records
		SET total_stock = $3, available_stock = $4, reserved_stock = $5,
		    damaged_stock = $6, wastage = $7, reorder_level = $8, batches = $9,
		    timeline = $10, last_updated_at = $11, last_updated_by = $12
		WHERE company_id = $1 AND stock_id = $2;
	`
	tag, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		record.CompanyID,
		record.StockID,
		record.TotalStock,
		record.AvailableStock,
		record.ReservedStock,
		record.DamagedStock,
		record.Wastage,
		record.ReorderLevel,
		batchesRaw,
		timelineRaw,
		record.LastUpdatedAt,
		record.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update stock record %s: %w", record.StockID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindStockByMaterial retrieves the company's stock record for a material.
func (r *PgxStockRepository) FindStockByMaterial(ctx context.Context, companyID, materialID string) (*domain.StockRecord, error) {
	return r.findStock(ctx, companyID, materialID, false)
}

// FindStockByMaterialForUpdate retrieves a stock record and locks its row so
// concurrent adjustments serialize.
func (r *PgxStockRepository) FindStockByMaterialForUpdate(ctx context.Context, companyID, materialID string) (*domain.StockRecord, error) {
	return r.findStock(ctx, companyID, materialID, true)
}

func (r *PgxStockRepository) findStock(ctx context.Context, companyID, materialID string, forUpdate bool) (*domain.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records WHERE company_id = $1 AND material_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	record, err := scanStock(querierFrom(ctx, r.pool).QueryRow(ctx, query, companyID, materialID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find stock for material %s: %w", materialID, err)
	}
	return record, nil
}

// ListStock retrieves every stock record of the company.
func (r *PgxStockRepository) ListStock(ctx context.Context, companyID string) ([]domain.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_records WHERE company_id = $1 ORDER BY created_at;`
	return r.queryStock(ctx, query, companyID)
}

// ListLowStock retrieves records whose available quantity has reached the
// reorder level. Records with no reorder level set never qualify.
func (r *PgxStockRepository) ListLowStock(ctx context.Context, companyID string) ([]domain.StockRecord, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_records
		WHERE company_id = $1 AND reorder_level > 0 AND available_stock <= reorder_level
		ORDER BY created_at;
	`
	return r.queryStock(ctx, query, companyID)
}

func (r *PgxStockRepository) queryStock(ctx context.Context, query string, args ...any) ([]domain.StockRecord, error) {
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock records: %w", err)
	}
	defer rows.Close()

	records := []domain.StockRecord{}
	for rows.Next() {
		record, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock row: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock rows: %w", err)
	}
	return records, nil
}
