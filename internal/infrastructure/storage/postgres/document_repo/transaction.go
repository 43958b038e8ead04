package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pharmapos/internal/core/id"
	"pharmapos/internal/domain"
	"pharmapos/internal/domain/sales"
	"pharmapos/internal/infrastructure/storage/postgres"
)

const (
	transactionsTable     = "doc_transactions"
	transactionLinesTable = "doc_transaction_lines"
)

// Compile-time check.
var _ sales.Repository = (*TransactionRepo)(nil)

// TransactionRepo implements sales.Repository.
type TransactionRepo struct {
	*BaseDocumentRepo[*sales.Transaction]
}

// NewTransactionRepo creates a new transaction repository.
func NewTransactionRepo(txManager *postgres.TxManager) *TransactionRepo {
	return &TransactionRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			transactionsTable,
			postgres.ExtractDBColumns[sales.Transaction](),
			func() *sales.Transaction { return &sales.Transaction{} },
		),
	}
}

// Create inserts the transaction header and all its lines.
func (r *TransactionRepo) Create(ctx context.Context, t *sales.Transaction) error {
	if err := r.CreateHeader(ctx, t); err != nil {
		return err
	}
	return r.insertLines(ctx, t.ID, t.Lines)
}

func (r *TransactionRepo) insertLines(ctx context.Context, txnID id.ID, lines []sales.Line) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(transactionLinesTable).
		Columns(
			"id", "transaction_id", "product_id", "product_name", "sku",
			"category", "quantity", "unit_price", "discount", "total",
		)

	for _, line := range lines {
		q = q.Values(
			line.ID, txnID, line.ProductID, line.ProductName, line.SKU,
			line.Category, line.Quantity, line.UnitPrice, line.Discount, line.Total,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

func (r *TransactionRepo) getLines(ctx context.Context, txnID id.ID) ([]sales.Line, error) {
	q := r.Builder().
		Select(
			"id", "transaction_id", "product_id", "product_name", "sku",
			"category", "quantity", "unit_price", "discount", "total",
		).
		From(transactionLinesTable).
		Where(squirrel.Eq{"transaction_id": txnID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []sales.Line
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// GetByID retrieves a transaction with its lines.
func (r *TransactionRepo) GetByID(ctx context.Context, txnID id.ID) (*sales.Transaction, error) {
	t, err := r.GetHeaderByID(ctx, txnID)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, t)
}

// GetByNumber retrieves a transaction by document number with its lines.
func (r *TransactionRepo) GetByNumber(ctx context.Context, number string) (*sales.Transaction, error) {
	t, err := r.GetHeaderByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, t)
}

// GetRefundOf returns the refund document referencing the given sale.
func (r *TransactionRepo) GetRefundOf(ctx context.Context, txnID id.ID) (*sales.Transaction, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"refunded_transaction_id": txnID}).
		Limit(1)

	t, err := r.FindOneHeader(ctx, q)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, t)
}

func (r *TransactionRepo) withLines(ctx context.Context, t *sales.Transaction) (*sales.Transaction, error) {
	lines, err := r.getLines(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Lines = lines
	return t, nil
}

// List retrieves transactions with filtering. Line items are not loaded
// for list views.
func (r *TransactionRepo) List(ctx context.Context, filter sales.ListFilter) (domain.ListResult[*sales.Transaction], error) {
	result := domain.ListResult[*sales.Transaction]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.CashierID != nil {
		q = q.Where(squirrel.Eq{"cashier_id": *filter.CashierID})
	}

	if filter.PaymentMethod != "" {
		q = q.Where(squirrel.Eq{"payment_method": filter.PaymentMethod})
	}

	if filter.RefundsOnly {
		q = q.Where(squirrel.NotEq{"refunded_transaction_id": nil})
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
			squirrel.ILike{"customer_name": pattern},
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
