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

// PgxPurchaseOrderRepository persists purchase orders.
type PgxPurchaseOrderRepository struct {
	pool *pgxpool.Pool
}

// NewPgxPurchaseOrderRepository creates a new repository for purchase orders.
func NewPgxPurchaseOrderRepository(pool *pgxpool.Pool) portsrepo.PurchaseOrderRepositoryFacade {
	return &PgxPurchaseOrderRepository{pool: pool}
}

var _ portsrepo.PurchaseOrderRepositoryFacade = (*PgxPurchaseOrderRepository)(nil)

const purchaseOrderColumns = `
	po_id, po_number, company_id, vendor_id, project_id, items, total_amount,
	gst, grand_total, status, approvals, expected_delivery_date,
	actual_delivery_date, partial_deliveries, delivery_status, requested_by,
	timeline, created_at, created_by, last_updated_at, last_updated_by
`

func scanPurchaseOrder(row pgx.Row) (*domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	var itemsRaw, gstRaw, approvalsRaw, deliveriesRaw, timelineRaw []byte

	err := row.Scan(
		&po.POID,
		&po.PONumber,
		&po.CompanyID,
		&po.VendorID,
		&po.ProjectID,
		&itemsRaw,
		&po.TotalAmount,
		&gstRaw,
		&po.GrandTotal,
		&po.Status,
		&approvalsRaw,
		&po.ExpectedDeliveryDate,
		&po.ActualDeliveryDate,
		&deliveriesRaw,
		&po.DeliveryStatus,
		&po.RequestedBy,
		&timelineRaw,
		&po.CreatedAt,
		&po.CreatedBy,
		&po.LastUpdatedAt,
		&po.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSONB(itemsRaw, &po.Items); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(gstRaw, &po.GST); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(approvalsRaw, &po.Approvals); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(deliveriesRaw, &po.PartialDeliveries); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(timelineRaw, &po.Timeline); err != nil {
		return nil, err
	}
	return &po, nil
}

// SavePO persists a new purchase order.
func (r *PgxPurchaseOrderRepository) SavePO(ctx context.Context, po domain.PurchaseOrder) error {
	itemsRaw, err := marshalJSONB(po.Items)
	if err != nil {
		return err
	}
	gstRaw, err := marshalJSONB(po.GST)
	if err != nil {
		return err
	}
	approvalsRaw, err := marshalJSONB(po.Approvals)
	if err != nil {
		return err
	}
	deliveriesRaw, err := marshalJSONB(po.PartialDeliveries)
	if err != nil {
		return err
	}
	timelineRaw, err := marshalJSONB(po.Timeline)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO purchase_orders (` + purchaseOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err = querierFrom(ctx, r.pool).Exec(ctx, query,
		po.POID,
		po.PONumber,
		po.CompanyID,
		po.VendorID,
		po.ProjectID,
		itemsRaw,
		po.TotalAmount,
		gstRaw,
		po.GrandTotal,
		po.Status,
		approvalsRaw,
		po.ExpectedDeliveryDate,
		po.ActualDeliveryDate,
		deliveriesRaw,
		po.DeliveryStatus,
		po.RequestedBy,
		timelineRaw,
		po.CreatedAt,
		po.CreatedBy,
		po.LastUpdatedAt,
		po.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert purchase order %s: %w", po.POID, err)
	}
	return nil
}

// UpdatePO replaces the mutable fields of an order.
func (r *PgxPurchaseOrderRepository) UpdatePO(ctx context.Context, po domain.PurchaseOrder) error {
	approvalsRaw, err := marshalJSONB(po.Approvals)
	if err != nil {
		return err
	}
	deliveriesRaw, err := marshalJSONB(po.PartialDeliveries)
	if err != nil {
		return err
	}
	timelineRaw, err := marshalJSONB(po.Timeline)
	if err != nil {
		return err
	}

	query := `
		UPDATE purchase_orders
		SET status = $3, approvals = $4, actual_delivery_date = $5,
		    partial_deliveries = $6, delivery_status = $7, timeline = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE company_id = $1 AND po_id = $2;
	`
	tag, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		po.CompanyID,
		po.POID,
		po.Status,
		approvalsRaw,
		po.ActualDeliveryDate,
		deliveriesRaw,
		po.DeliveryStatus,
		timelineRaw,
		po.LastUpdatedAt,
		po.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update purchase order %s: %w", po.POID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindPOByID retrieves a purchase order by its unique identifier.
func (r *PgxPurchaseOrderRepository) FindPOByID(ctx context.Context, companyID, poID string) (*domain.PurchaseOrder, error) {
	return r.findPO(ctx, companyID, poID, false)
}

// FindPOByIDForUpdate retrieves an order and locks its row.
func (r *PgxPurchaseOrderRepository) FindPOByIDForUpdate(ctx context.Context, companyID, poID string) (*domain.PurchaseOrder, error) {
	return r.findPO(ctx, companyID, poID, true)
}

func (r *PgxPurchaseOrderRepository) findPO(ctx context.Context, companyID, poID string, forUpdate bool) (*domain.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE company_id = $1 AND po_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	po, err := scanPurchaseOrder(querierFrom(ctx, r.pool).QueryRow(ctx, query, companyID, poID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find purchase order %s: %w", poID, err)
	}
	return po, nil
}

// ListPOs retrieves a filtered page of purchase orders, newest first.
func (r *PgxPurchaseOrderRepository) ListPOs(ctx context.Context, companyID string, filter portsrepo.PurchaseOrderFilter, limit int, nextToken *string) ([]domain.PurchaseOrder, *string, error) {
	token, err := decodePageToken(nextToken)
	if err != nil {
		return nil, nil, err
	}

	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE company_id = $1`
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
		query += fmt.Sprintf(" AND (created_at, po_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, po_id DESC LIMIT $%d", len(args))

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query purchase orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.PurchaseOrder{}
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan purchase order row: %w", err)
		}
		orders = append(orders, *po)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating purchase order rows: %w", err)
	}

	var next *string
	if len(orders) == limit {
		last := orders[len(orders)-1]
		next = encodePageToken(last.CreatedAt, last.POID)
	}
	return orders, next, nil
}
