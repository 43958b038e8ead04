package ledger

import (
	"context"

	"pharmapos/internal/core/id"
	"pharmapos/internal/domain"
)

// ListFilter extends the common filter with ledger-specific criteria.
type ListFilter struct {
	domain.ListFilter

	ProductID *id.ID
	Type      EntryType
	Reference string
}

// Repository defines persistence for ledger entries.
// Append-only: there are deliberately no update or delete methods.
type Repository interface {
	Append(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, entryID id.ID) (*Entry, error)
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Entry], error)

	// SumByProduct returns the net signed quantity across all entries for
	// a product. Used by consistency checks and stock reports.
	SumByProduct(ctx context.Context, productID id.ID) (int64, error)
}
