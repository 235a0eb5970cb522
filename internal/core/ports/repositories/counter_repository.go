package repositories

import "context"

// CounterRepository hands out monotonically increasing sequence numbers
// scoped per company and counter name (e.g. "material_request:2608").
// Next must be atomic: concurrent callers never see the same value.
type CounterRepository interface {
	Next(ctx context.Context, companyID, scope string) (int64, error)
}
