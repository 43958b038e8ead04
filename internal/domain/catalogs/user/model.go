// Package user provides the user catalog and authentication checks.
package user

import (
	"context"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/entity"
)

// Role defines what a user is allowed to do.
type Role string

const (
	RoleAdmin      Role = "admin"
	RolePharmacist Role = "pharmacist"
	RoleCashier    Role = "cashier"
)

// IsValid reports whether the role is known.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RolePharmacist, RoleCashier:
		return true
	}
	return false
}

// User represents a staff member able to sign in.
// Name (from Catalog) is the display name snapshotted into documents.
type User struct {
	entity.Catalog

	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         Role   `db:"role" json:"role"`
	Active       bool   `db:"active" json:"active"`
}

// NewUser creates a new active User.
func NewUser(username, name string, role Role) *User {
	return &User{
		Catalog:  entity.NewCatalog("", name),
		Username: username,
		Role:     role,
		Active:   true,
	}
}

// Validate implements entity.Validatable.
func (u *User) Validate(ctx context.Context) error {
	if err := u.Catalog.Validate(ctx); err != nil {
		return err
	}

	if u.Username == "" {
		return apperror.NewValidation("username is required").
			WithDetail("field", "username")
	}

	if !u.Role.IsValid() {
		return apperror.NewValidation("unknown role").
			WithDetail("field", "role").
			WithDetail("value", string(u.Role))
	}

	return nil
}
