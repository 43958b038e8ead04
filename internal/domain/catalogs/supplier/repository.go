package supplier

import (
	"context"

	"pharmapos/internal/core/id"
	"pharmapos/internal/domain"
)

// Repository defines persistence operations for suppliers.
type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error)
	Update(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, supplierID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Supplier], error)
}
