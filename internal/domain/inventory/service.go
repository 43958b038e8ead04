// Package inventory implements manual stock corrections: adjustments
// (either direction) and disposals of expired or damaged stock.
package inventory

import (
	"context"
	"fmt"
	"strings"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/tx"
	"pharmapos/internal/domain/catalogs/product"
	"pharmapos/internal/domain/catalogs/user"
	"pharmapos/internal/domain/ledger"
	"pharmapos/pkg/logger"
)

// Service implements stock adjustments and disposals.
type Service struct {
	products  product.Repository
	users     *user.Service
	ledger    *ledger.Service
	txManager tx.RetryingManager
}

// NewService creates a new inventory service.
func NewService(
	products product.Repository,
	users *user.Service,
	ledgerSvc *ledger.Service,
	txManager tx.RetryingManager,
) *Service {
	return &Service{
		products:  products,
		users:     users,
		ledger:    ledgerSvc,
		txManager: txManager,
	}
}

// Adjust applies a signed stock correction. The resulting quantity must not
// go negative. One adjustment ledger entry carries the signed delta.
func (s *Service) Adjust(ctx context.Context, productID id.ID, delta int64, notes string, actorID id.ID) error {
	if delta == 0 {
		return apperror.NewInvalidInput("adjustment delta cannot be zero")
	}

	actor, err := s.users.ResolveActor(ctx, actorID)
	if err != nil {
		return err
	}

	err = s.txManager.RunWithRetry(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		newQty := p.Quantity + delta
		if newQty < 0 {
			return apperror.NewInvalidState("adjustment would make stock negative").
				WithDetail("product", p.Name).
				WithDetail("quantity", p.Quantity).
				WithDetail("delta", delta)
		}

		if err := s.products.UpdateQuantity(ctx, p.ID, newQty); err != nil {
			return err
		}

		entry := &ledger.Entry{
			ProductID:   p.ID,
			ProductName: p.Name,
			Type:        ledger.EntryAdjustment,
			Quantity:    delta,
			UserID:      actor.ID,
			UserName:    actor.Name,
			Notes:       notes,
		}
		if err := s.ledger.Append(ctx, entry); err != nil {
			return err
		}

		logger.Info(ctx, "stock adjusted",
			"product", p.Name,
			"delta", delta,
			"quantity", newQty,
			"actor", actor.Name,
		)
		return nil
	})
	if err != nil {
		if apperror.IsAppError(err) && !apperror.IsCode(err, apperror.CodeDatabase) {
			return err
		}
		return apperror.NewOperationFailed("stock adjustment", err)
	}
	return nil
}

// Dispose removes expired or damaged stock. A reason is mandatory and the
// disposed quantity cannot exceed what is on the shelf.
func (s *Service) Dispose(ctx context.Context, productID id.ID, quantity int64, reason string, actorID id.ID) error {
	if quantity <= 0 {
		return apperror.NewInvalidInput("disposal quantity must be positive").
			WithDetail("quantity", quantity)
	}

	if strings.TrimSpace(reason) == "" {
		return apperror.NewInvalidInput("disposal reason is required")
	}

	actor, err := s.users.ResolveActor(ctx, actorID)
	if err != nil {
		return err
	}

	err = s.txManager.RunWithRetry(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		if quantity > p.Quantity {
			return apperror.NewInvalidState("cannot dispose more than current stock").
				WithDetail("product", p.Name).
				WithDetail("quantity", p.Quantity).
				WithDetail("requested", quantity)
		}

		if err := s.products.UpdateQuantity(ctx, p.ID, p.Quantity-quantity); err != nil {
			return err
		}

		entry := &ledger.Entry{
			ProductID:   p.ID,
			ProductName: p.Name,
			Type:        ledger.EntryOutflow,
			Quantity:    -quantity,
			UserID:      actor.ID,
			UserName:    actor.Name,
			Notes:       fmt.Sprintf("Disposal: %s", reason),
		}
		if err := s.ledger.Append(ctx, entry); err != nil {
			return err
		}

		logger.Info(ctx, "stock disposed",
			"product", p.Name,
			"quantity", quantity,
			"reason", reason,
			"actor", actor.Name,
		)
		return nil
	})
	if err != nil {
		if apperror.IsAppError(err) && !apperror.IsCode(err, apperror.CodeDatabase) {
			return err
		}
		return apperror.NewOperationFailed("stock disposal", err)
	}
	return nil
}
