package pgsql

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitesutra/construction_erp_app/internal/apperrors"
	portsrepo "github.com/sitesutra/construction_erp_app/internal/core/ports/repositories"
)

// querier is the subset of pgx operations repositories need. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so a repository method runs against
// the open transaction when one is carried in the context and against the
// pool otherwise.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txCtxKeyType struct{}

var txCtxKey = txCtxKeyType{}

// querierFrom returns the transaction embedded in ctx, or the pool.
func querierFrom(ctx context.Context, pool *pgxpool.Pool) querier {
	if tx, ok := ctx.Value(txCtxKey).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// PgxTxManager implements TransactionManager on a pgx connection pool.
type PgxTxManager struct {
	pool *pgxpool.Pool
}

// NewPgxTxManager creates a new transaction manager.
func NewPgxTxManager(pool *pgxpool.Pool) portsrepo.TransactionManager {
	return &PgxTxManager{pool: pool}
}

var _ portsrepo.TransactionManager = (*PgxTxManager)(nil)

// WithinTx runs fn inside a database transaction. The context passed to fn
// carries the transaction, so repository calls made with it join it. A nested
// call reuses the already-open transaction instead of starting another.
func (m *PgxTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txCtxKey).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(context.WithValue(ctx, txCtxKey, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// pageToken is the keyset cursor for paginated listings. Rows are ordered by
// (created_at DESC, id DESC); the token remembers where the last page ended.
type pageToken struct {
	CreatedAt time.Time `json:"c"`
	ID        string    `json:"i"`
}

func encodePageToken(createdAt time.Time, id string) *string {
	raw, err := json.Marshal(pageToken{CreatedAt: createdAt, ID: id})
	if err != nil {
		return nil
	}
	token := base64.RawURLEncoding.EncodeToString(raw)
	return &token
}

func decodePageToken(token *string) (*pageToken, error) {
	if token == nil || *token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(*token)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed pagination token", apperrors.ErrValidation)
	}
	var pt pageToken
	if err := json.Unmarshal(raw, &pt); err != nil {
		return nil, fmt.Errorf("%w: malformed pagination token", apperrors.ErrValidation)
	}
	return &pt, nil
}

// marshalJSONB serializes an embedded document for a jsonb column.
func marshalJSONB(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb payload: %w", err)
	}
	return raw, nil
}

// unmarshalJSONB deserializes a jsonb column into dst. NULL columns leave dst
// at its zero value.
func unmarshalJSONB(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to unmarshal jsonb payload: %w", err)
	}
	return nil
}
