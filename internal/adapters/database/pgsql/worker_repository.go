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

// PgxWorkerRepository persists workers and their embedded payroll ledgers.
type PgxWorkerRepository struct {
	pool *pgxpool.Pool
}

// NewPgxWorkerRepository creates a new repository for worker data.
func NewPgxWorkerRepository(pool *pgxpool.Pool) portsrepo.WorkerRepositoryFacade {
	return &PgxWorkerRepository{pool: pool}
}

var _ portsrepo.WorkerRepositoryFacade = (*PgxWorkerRepository)(nil)

const workerColumns = `
	worker_id, worker_no, company_id, full_name, mobile, category, photo_url,
	daily_wage, pending_dues, is_active, attendance, advances, settlements,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanWorker(row pgx.Row) (*domain.Worker, error) {
	var worker domain.Worker
	var attendanceRaw, advancesRaw, settlementsRaw []byte

	err := row.Scan(
		&worker.WorkerID,
		&worker.WorkerNo,
		&worker.CompanyID,
		&worker.FullName,
		&worker.Mobile,
		&worker.Category,
		&worker.PhotoURL,
		&worker.DailyWage,
		&worker.PendingDues,
		&worker.IsActive,
		&attendanceRaw,
		&advancesRaw,
		&settlementsRaw,
		&worker.CreatedAt,
		&worker.CreatedBy,
		&worker.LastUpdatedAt,
		&worker.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSONB(attendanceRaw, &worker.Attendance); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(advancesRaw, &worker.Advances); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(settlementsRaw, &worker.Settlements); err != nil {
		return nil, err
	}
	return &worker, nil
}

// SaveWorker persists a new worker.
func (r *PgxWorkerRepository) SaveWorker(ctx context.Context, worker domain.Worker) error {
	attendanceRaw, err := marshalJSONB(worker.Attendance)
	if err != nil {
		return err
	}
	advancesRaw, err := marshalJSONB(worker.Advances)
	if err != nil {
		return err
	}
	settlementsRaw, err := marshalJSONB(worker.Settlements)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO workers (` + workerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = querierFrom(ctx, r.pool).Exec(ctx, query,
		worker.WorkerID,
		worker.WorkerNo,
		worker.CompanyID,
		worker.FullName,
		worker.Mobile,
		worker.Category,
		worker.PhotoURL,
		worker.DailyWage,
		worker.PendingDues,
		worker.IsActive,
		attendanceRaw,
		advancesRaw,
		settlementsRaw,
		worker.CreatedAt,
		worker.CreatedBy,
		worker.LastUpdatedAt,
		worker.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert worker %s: %w", worker.WorkerID, err)
	}
	return nil
}

// UpdateWorker replaces the worker's profile and embedded ledgers.
func (r *PgxWorkerRepository) UpdateWorker(ctx context.Context, worker domain.Worker) error {
	attendanceRaw, err := marshalJSONB(worker.Attendance)
	if err != nil {
		return err
	}
	advancesRaw, err := marshalJSONB(worker.Advances)
	if err != nil {
		return err
	}
	settlementsRaw, err := marshalJSONB(worker.Settlements)
	if err != nil {
		return err
	}

	query := `
		UPDATE workers
		SET full_name = $3, mobile = $4, category = $5, photo_url = $6,
		    daily_wage = $7, pending_dues = $8, is_active = $9, attendance = $10,
		    advances = $11, settlements = $12, last_updated_at = $13, last_updated_by = $14
		WHERE company_id = $1 AND worker_id = $2;
	`
	tag, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		worker.CompanyID,
		worker.WorkerID,
		worker.FullName,
		worker.Mobile,
		worker.Category,
		worker.PhotoURL,
		worker.DailyWage,
		worker.PendingDues,
		worker.IsActive,
		attendanceRaw,
		advancesRaw,
		settlementsRaw,
		worker.LastUpdatedAt,
		worker.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update worker %s: %w", worker.WorkerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindWorkerByID retrieves a worker by its unique identifier.
func (r *PgxWorkerRepository) FindWorkerByID(ctx context.Context, companyID, workerID string) (*domain.Worker, error) {
	return r.findWorker(ctx, companyID, workerID, false)
}

// FindWorkerByIDForUpdate retrieves a worker and locks its row so a
// settlement and a concurrent attendance edit cannot interleave.
func (r *PgxWorkerRepository) FindWorkerByIDForUpdate(ctx context.Context, companyID, workerID string) (*domain.Worker, error) {
	return r.findWorker(ctx, companyID, workerID, true)
}

func (r *PgxWorkerRepository) findWorker(ctx context.Context, companyID, workerID string, forUpdate bool) (*domain.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers WHERE company_id = $1 AND worker_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	worker, err := scanWorker(querierFrom(ctx, r.pool).QueryRow(ctx, query, companyID, workerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find worker %s: %w", workerID, err)
	}
	return worker, nil
}

// ListWorkers retrieves a page of workers, newest first.
func (r *PgxWorkerRepository) ListWorkers(ctx context.Context, companyID string, activeOnly bool, limit int, nextToken *string) ([]domain.Worker, *string, error) {
	token, err := decodePageToken(nextToken)
	if err != nil {
		return nil, nil, err
	}

	query := `SELECT ` + workerColumns + ` FROM workers WHERE company_id = $1`
	args := []any{companyID}

	if activeOnly {
		query += " AND is_active"
	}
	if token != nil {
		args = append(args, token.CreatedAt, token.ID)
		query += fmt.Sprintf(" AND (created_at, worker_id) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, worker_id DESC LIMIT $%d", len(args))

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query workers: %w", err)
	}
	defer rows.Close()

	workers := []domain.Worker{}
	for rows.Next() {
		worker, err := scanWorker(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan worker row: %w", err)
		}
		workers = append(workers, *worker)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating worker rows: %w", err)
	}

	var next *string
	if len(workers) == limit {
		last := workers[len(workers)-1]
		next = encodePageToken(last.CreatedAt, last.WorkerID)
	}
	return workers, next, nil
}
