package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// NumeratorQuerier adapts the TxManager for the numerator: sequence bumps
// join the caller's transaction when one is in flight.
type NumeratorQuerier struct {
	txManager *TxManager
}

// NewNumeratorQuerier creates a transaction-aware numerator querier.
func NewNumeratorQuerier(txManager *TxManager) *NumeratorQuerier {
	return &NumeratorQuerier{txManager: txManager}
}

// QueryRow delegates to the context transaction or the pool.
func (q *NumeratorQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return q.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...)
}
