package product

import (
	"context"

	"pharmapos/internal/core/id"
	"pharmapos/internal/domain"
)

// ListFilter extends the common filter with product-specific criteria.
type ListFilter struct {
	domain.ListFilter

	Category string

	// LowStockOnly restricts results to products at or below reorder level
	LowStockOnly bool
}

// Repository defines persistence operations for products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// GetForUpdate loads the product with a row lock. Must be called inside
	// a transaction; it serializes the check-then-decrement sequence against
	// concurrent stock mutations of the same product.
	GetForUpdate(ctx context.Context, productID id.ID) (*Product, error)

	GetBySKU(ctx context.Context, sku string) (*Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*Product, error)
	Update(ctx context.Context, p *Product) error

	// UpdateQuantity sets the absolute stock level.
	UpdateQuantity(ctx context.Context, productID id.ID, quantity int64) error

	Delete(ctx context.Context, productID id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Product], error)
}
