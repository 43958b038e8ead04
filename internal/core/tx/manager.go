// Package tx provides transaction management abstractions.
// This package defines interfaces that decouple domain logic from specific
// database implementations, following the Dependency Inversion Principle.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
// Implementations handle BEGIN, COMMIT, ROLLBACK, and nested transaction support.
//
// Domain services depend on this interface, not concrete implementations.
// The actual implementation lives in infrastructure/storage/postgres.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RetryingManager extends Manager with bounded retry for transient
// write conflicts (deadlocks, serialization failures). Business-rule
// violations are never retried.
type RetryingManager interface {
	Manager

	// RunWithRetry executes fn as RunInTransaction does, retrying the whole
	// unit of work a small fixed number of times when the storage layer
	// reports a transient conflict.
	RunWithRetry(ctx context.Context, fn func(ctx context.Context) error) error
}
