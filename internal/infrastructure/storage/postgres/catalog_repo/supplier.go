package catalog_repo

import (
	"context"

	"pharmapos/internal/core/id"
	"pharmapos/internal/domain"
	"pharmapos/internal/domain/catalogs/supplier"
	"pharmapos/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ supplier.Repository = (*SupplierRepo)(nil)

// SupplierRepo is the PostgreSQL implementation of supplier.Repository.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"cat_suppliers",
			postgres.ExtractDBColumns[supplier.Supplier](),
			func() *supplier.Supplier { return &supplier.Supplier{} },
		),
	}
}

// Delete soft-deletes a supplier.
func (r *SupplierRepo) Delete(ctx context.Context, supplierID id.ID) error {
	return r.SetDeletionMark(ctx, supplierID, true)
}

// List retrieves suppliers with filtering.
func (r *SupplierRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*supplier.Supplier], error) {
	return r.BaseCatalogRepo.List(ctx, filter, nil)
}
