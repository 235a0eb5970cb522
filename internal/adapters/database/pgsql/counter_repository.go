package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/sitesutra/construction_erp_app/internal/core/ports/repositories"
)

// PgxCounterRepository hands out document sequence numbers from a counters
// table keyed by (company_id, scope).
type PgxCounterRepository struct {
	pool *pgxpool.Pool
}

// NewPgxCounterRepository creates a new counter repository.
func NewPgxCounterRepository(pool *pgxpool.Pool) portsrepo.CounterRepository {
	return &PgxCounterRepository{pool: pool}
}

var _ portsrepo.CounterRepository = (*PgxCounterRepository)(nil)

// Next atomically increments and returns the counter for (companyID, scope).
// The upsert makes concurrent callers serialize on the counter row, so two
// callers can never see the same value.
func (r *PgxCounterRepository) Next(ctx context.Context, companyID, scope string) (int64, error) {
	query := `
		INSERT INTO counters (company_id, scope, current_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, scope)
		DO UPDATE SET current_value = counters.current_value + 1
		RETURNING current_value;
	`
	var value int64
	err := querierFrom(ctx, r.pool).QueryRow(ctx, query, companyID, scope).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to advance counter %s/%s: %w", companyID, scope, err)
	}
	return value, nil
}
