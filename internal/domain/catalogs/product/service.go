package product

import (
	"context"
	"fmt"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/tx"
	"pharmapos/internal/domain"
	"pharmapos/pkg/logger"
	"pharmapos/pkg/numerator"
)

// Service provides business operations for the product catalog.
type Service struct {
	repo      Repository
	numerator *numerator.Service
	txManager tx.Manager
}

// NewService creates a new product catalog service.
func NewService(repo Repository, num *numerator.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		numerator: num,
		txManager: txManager,
	}
}

// Create validates and persists a new product.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if p.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("PRD"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		p.Code = code
	}

	if err := s.checkUnique(ctx, p); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	logger.Info(ctx, "product created", "id", p.ID, "sku", p.SKU, "name", p.Name)
	return nil
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// GetBySKU retrieves a product by its SKU.
func (s *Service) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	return s.repo.GetBySKU(ctx, sku)
}

// GetByBarcode retrieves a product by its barcode.
func (s *Service) GetByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return s.repo.GetByBarcode(ctx, barcode)
}

// Update validates and persists catalog edits.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if err := s.checkUnique(ctx, p); err != nil {
		return err
	}

	return s.repo.Update(ctx, p)
}

// UpdateQuantity sets an absolute stock level. Rejects negative targets;
// the quantity invariant holds regardless of caller.
func (s *Service) UpdateQuantity(ctx context.Context, productID id.ID, quantity int64) error {
	if quantity < 0 {
		return apperror.NewInvalidState("quantity cannot be negative").
			WithDetail("quantity", quantity)
	}
	return s.repo.UpdateQuantity(ctx, productID, quantity)
}

// Delete soft-deletes a product. Ledger entries keep their name snapshot,
// so the audit trail survives.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, productID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, productID)
	})
}

// List retrieves products with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Product], error) {
	return s.repo.List(ctx, filter)
}

// checkUnique enforces SKU and barcode uniqueness across the catalog.
func (s *Service) checkUnique(ctx context.Context, p *Product) error {
	if existing, err := s.repo.GetBySKU(ctx, p.SKU); err == nil && existing.ID != p.ID {
		return apperror.NewDuplicate("product", "sku", p.SKU)
	}

	if p.Barcode != "" {
		if existing, err := s.repo.GetByBarcode(ctx, p.Barcode); err == nil && existing.ID != p.ID {
			return apperror.NewDuplicate("product", "barcode", p.Barcode)
		}
	}

	return nil
}
