package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/domain"
	"pharmapos/internal/domain/catalogs/product"
	"pharmapos/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo is the PostgreSQL implementation of product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"cat_products",
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

// GetBySKU retrieves a product by its SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	q := r.Builder().
		Select(r.selectCols...).
		From(r.tableName).
		Where(squirrel.Eq{"sku": sku}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.FindOne(ctx, q)
}

// GetByBarcode retrieves a product by its barcode.
func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	q := r.Builder().
		Select(r.selectCols...).
		From(r.tableName).
		Where(squirrel.Eq{"barcode": barcode}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.FindOne(ctx, q)
}

// UpdateQuantity sets the absolute stock level without touching other
// columns. The version still bumps so concurrent editors notice.
func (r *ProductRepo) UpdateQuantity(ctx context.Context, productID id.ID, quantity int64) error {
	q := r.Builder().
		Update(r.tableName).
		Set("quantity", quantity).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update quantity: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update quantity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, productID.String())
	}

	return nil
}

// Delete soft-deletes a product.
func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	return r.SetDeletionMark(ctx, productID, true)
}

// List retrieves products with catalog and product-specific filtering.
// Search is widened to cover SKU and barcode, so the base name/code search
// is bypassed.
func (r *ProductRepo) List(ctx context.Context, filter product.ListFilter) (domain.ListResult[*product.Product], error) {
	search := filter.Search
	filter.Search = ""

	return r.BaseCatalogRepo.List(ctx, filter.ListFilter, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.Category != "" {
			q = q.Where(squirrel.Eq{"category": filter.Category})
		}
		if filter.LowStockOnly {
			q = q.Where(squirrel.Expr("reorder_level > 0 AND quantity <= reorder_level"))
		}
		if search != "" {
			pattern := "%" + search + "%"
			q = q.Where(squirrel.Or{
				squirrel.ILike{"name": pattern},
				squirrel.ILike{"sku": pattern},
				squirrel.ILike{"barcode": pattern},
			})
		}
		return q
	})
}
