package company

import "context"

// Repository defines persistence for the single company profile row.
type Repository interface {
	// Get returns the profile or apperror.NewNotFound when the row
	// has not been created yet.
	Get(ctx context.Context) (*Profile, error)

	Create(ctx context.Context, p *Profile) error
	Update(ctx context.Context, p *Profile) error
}
