package dto

import (
	"pharmapos/internal/domain/catalogs/user"
)

// CreateUserRequest for creating users.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ToModel converts the request to a domain user.
func (r *CreateUserRequest) ToModel() *user.User {
	return user.NewUser(r.Username, r.Name, user.Role(r.Role))
}

// UpdateUserRequest for updating users.
type UpdateUserRequest struct {
	Name    string `json:"name" binding:"required"`
	Role    string `json:"role" binding:"required"`
	Active  *bool  `json:"active"`
	Version int    `json:"version" binding:"required,min=1"`
}

// Apply copies the request onto an existing user.
func (r *UpdateUserRequest) Apply(u *user.User) {
	u.Name = r.Name
	u.Role = user.Role(r.Role)
	if r.Active != nil {
		u.Active = *r.Active
	}
	u.Version = r.Version
}

// ChangePasswordRequest for password changes.
type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}
