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

// PgxMaterialRequestRepository persists material requests.
type PgxMaterialRequestRepository struct {
	pool *pgxpool.Pool
}

// NewPgxMaterialRequestRepository creates a new repository for material requests.
func NewPgxMaterialRequestRepository(pool *pgxpool.Pool) portsrepo.MaterialRequestRepositoryFacade {
	return &PgxMaterialRequestRepository{pool: pool}
}

var _ portsrepo.MaterialRequestRepositoryFacade = (*PgxMaterialRequestRepository)(nil)

const materialRequestColumns = `
	request_id, request_no, company_id, material_id, project_id, quantity,
	status, priority, purpose, remarks, requester, approver, issuer, timeline,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanMaterialRequest(row pgx.Row) (*domain.MaterialRequest, error) {
	var request domain.MaterialRequest
	var timelineRaw []byte

	err := row.Scan(
		&request.RequestID,
		&request.RequestNo,
		&request.CompanyID,
		&request.MaterialID,
		&request.ProjectID,
		&request.Quantity,
		&request.Status,
		&request.Priority,
		&request.Purpose,
		&request.Remarks,
		&request.Requester,
		&request.Approver,
		&request.Issuer,
		&timelineRaw,
		&request.CreatedAt,
		&request.CreatedBy,
		&request.LastUpdatedAt,
		&request.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSONB(timelineRaw, &request.Timeline); err != nil {
		return nil, err
	}
	return &request, nil
}

// SaveRequest persists a new material request.
func (r *PgxMaterialRequestRepository) SaveRequest(ctx context.Context, request domain.MaterialRequest) error {
	timelineRaw, err := marshalJSONB(request.Timeline)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO material_requests (` + materialRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = querierFrom(ctx, r.pool).Exec(ctx, query,
		request.RequestID,
		request.RequestNo,
		request.CompanyID,
		request.MaterialID,
		request.ProjectID,
		request.Quantity,
		request.Status,
		request.Priority,
		request.Purpose,
		request.Remarks,
		request.Requester,
		request.Approver,
		request.Issuer,
		timelineRaw,
		request.CreatedAt,
		request.CreatedBy,
		request.LastUpdatedAt,
		request.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert material request %s: %w", request.RequestID, err)
	}
	return nil
}

// UpdateRequest replaces the status, actors and timeline of a request.
func (r *PgxMaterialRequestRepository) UpdateRequest(ctx context.Context, request domain.MaterialRequest) error {
	timelineRaw, err := marshalJSONB(request.Timeline)
	if err != nil {
		return err
	}

	query := `
		UPDATE material_requests
		SET status = $3, approver = $4, issuer = $5, remarks = $6, timeline = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE company_id = $1 AND request_id = $2;
	`
	tag, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		request.CompanyID,
		request.RequestID,
		request.Status,
		request.Approver,
		request.Issuer,
		request.Remarks,
		timelineRaw,
		request.LastUpdatedAt,
		request.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update material request %s: %w", request.RequestID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindRequestByID retrieves a material request by its unique identifier.
func (r *PgxMaterialRequestRepository) FindRequestByID(ctx context.Context, companyID, requestID string) (*domain.MaterialRequest, error) {
	return r.findRequest(ctx, companyID, requestID, false)
}

// FindRequestByIDForUpdate retrieves a request and locks its row.
func (r *PgxMaterialRequestRepository) FindRequestByIDForUpdate(ctx context.Context, companyID, requestID string) (*domain.MaterialRequest, error) {
	return r.findRequest(ctx, companyID, requestID, true)
}

func (r *PgxMaterialRequestRepository) findRequest(ctx context.Context, companyID, requestID string, forUpdate bool) (*domain.MaterialRequest, error) {
	query := `SELECT ` + materialRequestColumns + ` FROM material_requests WHERE company_id = $1 AND request_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	request, err := scanMaterialRequest(querierFrom(ctx, r.pool).QueryRow(ctx, query, companyID, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find material request %s: %w", requestID, err)
	}
	return request, nil
}

// ListRequests retrieves a filtered page of material requests, newest first.
func (r *PgxMaterialRequestRepository) ListRequests(ctx context.Context, companyID string, filter portsrepo.MaterialRequestFilter, limit int, nextToken *string) ([]domain.MaterialRequest, *string, error) {
	token, err := decodePageToken(nextToken)
	if err != nil {
		return nil, nil, err
	}

	query := `SELECT ` + materialRequestColumns + ` FROM material_requests WHERE company_id = $1`
	args := []any{companyID}

	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if token != nil {
		args = append(args, token.CreatedAt, token.ID)
		query += fmt.Sprintf(" AND (created_at, request_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, request_id DESC LIMIT $%d", len(args))

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query material requests: %w", err)
	}
	defer rows.Close()

	requests := []domain.MaterialRequest{}
	for rows.Next() {
		request, err := scanMaterialRequest(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan material request row: %w", err)
		}
		requests = append(requests, *request)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating material request rows: %w", err)
	}

	var next *string
	if len(requests) == limit {
		last := requests[len(requests)-1]
		next = encodePageToken(last.CreatedAt, last.RequestID)
	}
	return requests, next, nil
}
