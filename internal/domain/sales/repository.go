package sales

import (
	"context"

	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain"
)

// ListFilter extends the common filter with transaction-specific criteria.
type ListFilter struct {
	domain.ListFilter

	CashierID     *id.ID
	PaymentMethod types.PaymentMethod

	// RefundsOnly restricts results to refund documents
	RefundsOnly bool
}

// Repository defines persistence for sale transactions.
// Transactions are immutable after insert; there is no Update.
type Repository interface {
	// Create inserts the transaction and all its lines.
	Create(ctx context.Context, t *Transaction) error

	GetByID(ctx context.Context, txnID id.ID) (*Transaction, error)
	GetByNumber(ctx context.Context, number string) (*Transaction, error)

	// GetRefundOf returns the refund document referencing the given sale,
	// or apperror.NewNotFound when none exists.
	GetRefundOf(ctx context.Context, txnID id.ID) (*Transaction, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Transaction], error)
}
