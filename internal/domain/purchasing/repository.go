package purchasing

import (
	"context"

	"pharmapos/internal/core/id"
	"pharmapos/internal/domain"
)

// ListFilter extends the common filter with order-specific criteria.
type ListFilter struct {
	domain.ListFilter

	SupplierID *id.ID
	Status     Status
}

// Repository defines persistence for purchase orders.
type Repository interface {
	// Create inserts the order and all its lines.
	Create(ctx context.Context, po *PurchaseOrder) error

	GetByID(ctx context.Context, poID id.ID) (*PurchaseOrder, error)

	// GetForUpdate loads the order with a row lock. Must be called inside a
	// transaction; it is the serialization point that makes receipt
	// idempotent under concurrent receive calls.
	GetForUpdate(ctx context.Context, poID id.ID) (*PurchaseOrder, error)

	GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error)

	// Update rewrites the order header and replaces its lines.
	Update(ctx context.Context, po *PurchaseOrder) error

	Delete(ctx context.Context, poID id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error)
}
