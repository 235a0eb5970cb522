package repositories

import "context"

// TransactionManager runs a function inside a database transaction. The
// context passed to fn carries the open transaction, so repository calls made
// with it join the same transaction. fn returning an error rolls back;
// returning nil commits.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
