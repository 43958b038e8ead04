package user

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/domain"
	"pharmapos/pkg/logger"
	"pharmapos/pkg/numerator"
)

// Service provides business operations for the user catalog.
type Service struct {
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new user service.
func NewService(repo Repository, num *numerator.Service) *Service {
	return &Service{repo: repo, numerator: num}
}

// Create validates and persists a new user with a hashed password.
func (s *Service) Create(ctx context.Context, u *User, password string) error {
	if err := u.Validate(ctx); err != nil {
		return err
	}

	if len(password) < 8 {
		return apperror.NewValidation("password must be at least 8 characters").
			WithDetail("field", "password")
	}

	if existing, err := s.repo.GetByUsername(ctx, u.Username); err == nil && existing.ID != u.ID {
		return apperror.NewDuplicate("user", "username", u.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	if u.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("USR"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		u.Code = code
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return err
	}

	logger.Info(ctx, "user created", "id", u.ID, "username", u.Username, "role", u.Role)
	return nil
}

// Authenticate verifies credentials and returns the user.
// Inactive users cannot sign in; the error is deliberately uniform so the
// caller cannot distinguish wrong password from unknown username.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	if !u.Active || u.DeletionMark {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	return u, nil
}

// ResolveActor loads the acting user for a stock-affecting operation.
// Every sale, receipt, refund and adjustment calls this before mutating
// anything; a missing or inactive record aborts the whole operation.
func (s *Service) ResolveActor(ctx context.Context, userID id.ID) (domain.Actor, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return domain.Actor{}, apperror.NewActorNotFound(userID)
	}

	if !u.Active || u.DeletionMark {
		return domain.Actor{}, apperror.NewActorNotFound(userID)
	}

	return domain.Actor{ID: u.ID, Name: u.Name}, nil
}

// ChangePassword replaces the user's password hash.
func (s *Service) ChangePassword(ctx context.Context, userID id.ID, newPassword string) error {
	if len(newPassword) < 8 {
		return apperror.NewValidation("password must be at least 8 characters").
			WithDetail("field", "password")
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	return s.repo.Update(ctx, u)
}

// GetByID retrieves a user.
func (s *Service) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// Update persists user edits. Password changes go through ChangePassword.
func (s *Service) Update(ctx context.Context, u *User) error {
	if err := u.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, u)
}

// Delete soft-deletes a user. Documents keep their name snapshot.
func (s *Service) Delete(ctx context.Context, userID id.ID) error {
	return s.repo.Delete(ctx, userID)
}

// List retrieves users with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*User], error) {
	return s.repo.List(ctx, filter)
}
