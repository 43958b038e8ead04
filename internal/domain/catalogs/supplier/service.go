package supplier

import (
	"context"
	"fmt"
	"time"

	"pharmapos/internal/core/id"
	"pharmapos/internal/domain"
	"pharmapos/pkg/numerator"
)

// Service provides business operations for the supplier catalog.
type Service struct {
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new supplier service.
func NewService(repo Repository, num *numerator.Service) *Service {
	return &Service{repo: repo, numerator: num}
}

// Create validates and persists a new supplier.
func (s *Service) Create(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}

	if sup.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("SUP"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		sup.Code = code
	}

	return s.repo.Create(ctx, sup)
}

// GetByID retrieves a supplier.
func (s *Service) GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	return s.repo.GetByID(ctx, supplierID)
}

// Update persists supplier edits.
func (s *Service) Update(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, sup)
}

// Delete soft-deletes a supplier.
func (s *Service) Delete(ctx context.Context, supplierID id.ID) error {
	return s.repo.Delete(ctx, supplierID)
}

// List retrieves suppliers with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Supplier], error) {
	return s.repo.List(ctx, filter)
}
