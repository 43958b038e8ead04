package ledger

import (
	"context"
	"time"

	"pharmapos/internal/core/id"
	"pharmapos/internal/domain"
)

// Service provides read access and validated appends to the stock ledger.
type Service struct {
	repo Repository
}

// NewService creates a new ledger service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Append validates and persists a ledger entry. Callers run this inside the
// same transaction that mutates the product quantity, so ledger and catalog
// can never diverge.
func (s *Service) Append(ctx context.Context, e *Entry) error {
	if err := e.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(e.ID) {
		e.ID = id.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	return s.repo.Append(ctx, e)
}

// GetByID retrieves a single entry.
func (s *Service) GetByID(ctx context.Context, entryID id.ID) (*Entry, error) {
	return s.repo.GetByID(ctx, entryID)
}

// ListByProduct returns a product's movement history, newest first.
func (s *Service) ListByProduct(ctx context.Context, productID id.ID, filter domain.ListFilter) (domain.ListResult[*Entry], error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "-created_at"
	}
	return s.repo.List(ctx, ListFilter{
		ListFilter: filter,
		ProductID:  &productID,
	})
}

// List returns ledger entries matching the filter, newest first by default.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Entry], error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "-created_at"
	}
	return s.repo.List(ctx, filter)
}

// NetQuantity returns the sum of signed quantities for a product.
func (s *Service) NetQuantity(ctx context.Context, productID id.ID) (int64, error) {
	return s.repo.SumByProduct(ctx, productID)
}
