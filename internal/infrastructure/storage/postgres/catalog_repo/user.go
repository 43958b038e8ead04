package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"pharmapos/internal/core/id"
	"pharmapos/internal/domain"
	"pharmapos/internal/domain/catalogs/user"
	"pharmapos/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ user.Repository = (*UserRepo)(nil)

// UserRepo is the PostgreSQL implementation of user.Repository.
type UserRepo struct {
	*BaseCatalogRepo[*user.User]
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"cat_users",
			postgres.ExtractDBColumns[user.User](),
			func() *user.User { return &user.User{} },
		),
	}
}

// GetByUsername retrieves a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	q := r.Builder().
		Select(r.selectCols...).
		From(r.tableName).
		Where(squirrel.Eq{"username": username}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.FindOne(ctx, q)
}

// Delete soft-deletes a user.
func (r *UserRepo) Delete(ctx context.Context, userID id.ID) error {
	return r.SetDeletionMark(ctx, userID, true)
}

// List retrieves users with filtering.
func (r *UserRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*user.User], error) {
	return r.BaseCatalogRepo.List(ctx, filter, nil)
}
