package user

import (
	"context"

	"pharmapos/internal/core/id"
	"pharmapos/internal/domain"
)

// Repository defines persistence operations for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, userID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*User], error)
}
