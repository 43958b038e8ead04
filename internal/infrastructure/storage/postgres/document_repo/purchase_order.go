package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pharmapos/internal/core/id"
	"pharmapos/internal/domain"
	"pharmapos/internal/domain/purchasing"
	"pharmapos/internal/infrastructure/storage/postgres"
)

const (
	purchaseOrdersTable     = "doc_purchase_orders"
	purchaseOrderLinesTable = "doc_purchase_order_lines"
)

// Compile-time check.
var _ purchasing.Repository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implements purchasing.Repository.
type PurchaseOrderRepo struct {
	*BaseDocumentRepo[*purchasing.PurchaseOrder]
}

// NewPurchaseOrderRepo creates a new purchase order repository.
func NewPurchaseOrderRepo(txManager *postgres.TxManager) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			purchaseOrdersTable,
			postgres.ExtractDBColumns[purchasing.PurchaseOrder](),
			func() *purchasing.PurchaseOrder { return &purchasing.PurchaseOrder{} },
		),
	}
}

// Create inserts the order header and all its lines.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *purchasing.PurchaseOrder) error {
	if err := r.CreateHeader(ctx, po); err != nil {
		return err
	}
	return r.saveLines(ctx, po.ID, po.Lines, false)
}

// Update rewrites the order header and replaces its lines.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *purchasing.PurchaseOrder) error {
	if err := r.UpdateHeader(ctx, po); err != nil {
		return err
	}
	return r.saveLines(ctx, po.ID, po.Lines, true)
}

// saveLines inserts order lines, optionally deleting existing ones first.
func (r *PurchaseOrderRepo) saveLines(ctx context.Context, poID id.ID, lines []purchasing.Line, replace bool) error {
	querier := r.Querier(ctx)

	if replace {
		deleteSQL := "DELETE FROM " + purchaseOrderLinesTable + " WHERE purchase_order_id = $1"
		if _, err := querier.Exec(ctx, deleteSQL, poID); err != nil {
			return fmt.Errorf("delete existing lines: %w", err)
		}
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(purchaseOrderLinesTable).
		Columns(
			"id", "purchase_order_id", "product_id", "product_name",
			"quantity", "unit_price", "line_total", "batch_number", "expiry_date",
		)

	for _, line := range lines {
		lineID := line.ID
		if id.IsNil(lineID) {
			lineID = id.New()
		}
		q = q.Values(
			lineID, poID, line.ProductID, line.ProductName,
			line.Quantity, line.UnitPrice, line.LineTotal, line.BatchNumber, line.ExpiryDate,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

func (r *PurchaseOrderRepo) getLines(ctx context.Context, poID id.ID) ([]purchasing.Line, error) {
	q := r.Builder().
		Select(
			"id", "purchase_order_id", "product_id", "product_name",
			"quantity", "unit_price", "line_total", "batch_number", "expiry_date",
		).
		From(purchaseOrderLinesTable).
		Where(squirrel.Eq{"purchase_order_id": poID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []purchasing.Line
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// GetByID retrieves an order with its lines.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, poID id.ID) (*purchasing.PurchaseOrder, error) {
	po, err := r.GetHeaderByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, po)
}

// GetForUpdate retrieves an order with a row lock and its lines.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, poID id.ID) (*purchasing.PurchaseOrder, error) {
	po, err := r.GetHeaderForUpdate(ctx, poID)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, po)
}

// GetByNumber retrieves an order by document number with its lines.
func (r *PurchaseOrderRepo) GetByNumber(ctx context.Context, number string) (*purchasing.PurchaseOrder, error) {
	po, err := r.GetHeaderByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, po)
}

func (r *PurchaseOrderRepo) withLines(ctx context.Context, po *purchasing.PurchaseOrder) (*purchasing.PurchaseOrder, error) {
	lines, err := r.getLines(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	po.Lines = lines
	return po, nil
}

// Delete removes the order and its lines.
func (r *PurchaseOrderRepo) Delete(ctx context.Context, poID id.ID) error {
	deleteSQL := "DELETE FROM " + purchaseOrderLinesTable + " WHERE purchase_order_id = $1"
	if _, err := r.Querier(ctx).Exec(ctx, deleteSQL, poID); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}
	return r.DeleteHeader(ctx, poID)
}

// List retrieves orders with filtering. Line items are not loaded for
// list views.
func (r *PurchaseOrderRepo) List(ctx context.Context, filter purchasing.ListFilter) (domain.ListResult[*purchasing.PurchaseOrder], error) {
	result := domain.ListResult[*purchasing.PurchaseOrder]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}

	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"supplier_name": pattern},
		})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.Querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.ParseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}
