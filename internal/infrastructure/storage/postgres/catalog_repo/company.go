package catalog_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/Masterminds/squirrel"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/domain/company"
	"pharmapos/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ company.Repository = (*CompanyRepo)(nil)

// CompanyRepo is the PostgreSQL implementation of company.Repository.
// The table holds at most one row.
type CompanyRepo struct {
	txManager  *postgres.TxManager
	tableName  string
	selectCols []string
}

// NewCompanyRepo creates a new company profile repository.
func NewCompanyRepo(txManager *postgres.TxManager) *CompanyRepo {
	return &CompanyRepo{
		txManager:  txManager,
		tableName:  "company_profile",
		selectCols: postgres.ExtractDBColumns[company.Profile](),
	}
}

func (r *CompanyRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Get returns the single profile row.
func (r *CompanyRepo) Get(ctx context.Context) (*company.Profile, error) {
	q := r.builder().
		Select(r.selectCols...).
		From(r.tableName).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	profile := &company.Profile{}
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, profile, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(r.tableName, "singleton")
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return profile, nil
}

// Create inserts the profile row.
func (r *CompanyRepo) Create(ctx context.Context, p *company.Profile) error {
	data := postgres.StructToMap(p)

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder().
		Insert(r.tableName).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	_, err = r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate(r.tableName, "singleton", "").WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}

	return nil
}

// Update modifies the profile row with optimistic locking.
func (r *CompanyRepo) Update(ctx context.Context, p *company.Profile) error {
	data := postgres.StructToMap(p)

	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("profile has no 'version' field")
	}

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" || col == "version" {
			continue
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder().
		Update(r.tableName).
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": p.ID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(r.tableName, p.ID.String())
	}

	return nil
}
