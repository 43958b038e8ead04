package purchasing

import (
	"context"
	"fmt"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/tx"
	"pharmapos/internal/domain"
	"pharmapos/internal/domain/catalogs/product"
	"pharmapos/internal/domain/catalogs/supplier"
	"pharmapos/internal/domain/catalogs/user"
	"pharmapos/internal/domain/ledger"
	"pharmapos/pkg/logger"
	"pharmapos/pkg/numerator"
)

// Service implements the purchase order workflow.
type Service struct {
	repo      Repository
	products  product.Repository
	suppliers supplier.Repository
	users     *user.Service
	ledger    *ledger.Service
	numerator *numerator.Service
	txManager tx.RetryingManager
}

// NewService creates a new purchasing service.
func NewService(
	repo Repository,
	products product.Repository,
	suppliers supplier.Repository,
	users *user.Service,
	ledgerSvc *ledger.Service,
	num *numerator.Service,
	txManager tx.RetryingManager,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		suppliers: suppliers,
		users:     users,
		ledger:    ledgerSvc,
		numerator: num,
		txManager: txManager,
	}
}

// Create validates and persists a new pending order. Purchase orders use the
// strict DB sequence so numbers are gapless within a year.
func (s *Service) Create(ctx context.Context, po *PurchaseOrder, actorID id.ID) error {
	actor, err := s.users.ResolveActor(ctx, actorID)
	if err != nil {
		return err
	}

	if po.Status == "" {
		po.Status = StatusPending
	}
	if po.Status != StatusPending {
		return apperror.NewInvalidState("new orders must be pending").
			WithDetail("status", string(po.Status))
	}

	sup, err := s.suppliers.GetByID(ctx, po.SupplierID)
	if err != nil {
		return err
	}
	po.SupplierName = sup.Name

	s.snapshotProductNames(ctx, po)
	po.ComputeTotals()
	po.CreatedBy = actor.Name

	if err := po.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("PO"), nil, po.Date)
		if err != nil {
			return fmt.Errorf("generate order number: %w", err)
		}
		po.Number = number

		if err := s.repo.Create(ctx, po); err != nil {
			return err
		}

		logger.Info(ctx, "purchase order created",
			"number", po.Number,
			"supplier", po.SupplierName,
			"lines", len(po.Lines),
			"total", po.TotalAmount,
		)
		return nil
	})
}

// Update edits a pending order. An update carrying status=received persists
// the accompanying edits and then runs Receive, so restocking always takes
// the same path and no payload field is lost.
func (s *Service) Update(ctx context.Context, po *PurchaseOrder, actorID id.ID) error {
	actor, err := s.users.ResolveActor(ctx, actorID)
	if err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, po.ID)
	if err != nil {
		return err
	}

	if current.Status != StatusPending {
		return apperror.NewInvalidState("only pending orders can be edited").
			WithDetail("number", current.Number).
			WithDetail("status", string(current.Status))
	}

	target := po.Status
	if target == "" {
		target = StatusPending
	}
	if !target.IsValid() {
		return apperror.NewValidation("unknown order status").
			WithDetail("field", "status").
			WithDetail("value", string(po.Status))
	}

	// Edits carried alongside a status change are persisted first, so the
	// receive or cancel below acts on the updated document.
	po.Status = StatusPending
	po.Number = current.Number
	po.SupplierName = current.SupplierName
	if po.SupplierID != current.SupplierID {
		sup, err := s.suppliers.GetByID(ctx, po.SupplierID)
		if err != nil {
			return err
		}
		po.SupplierName = sup.Name
	}

	s.snapshotProductNames(ctx, po)
	po.ComputeTotals()
	po.UpdatedBy = actor.Name

	if err := po.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, po); err != nil {
		return err
	}

	switch target {
	case StatusReceived:
		return s.Receive(ctx, po.ID, actorID)
	case StatusCancelled:
		return s.Cancel(ctx, po.ID, actorID)
	}
	return nil
}

// Receive marks the order delivered and restocks every line: quantity is
// added to the product, batch and expiry are refreshed when the line carries
// them, and one inflow ledger entry per line references the order number.
// The status guard under a row lock makes receipt exactly-once: a second
// call observes status=received and fails with INVALID_STATE.
func (s *Service) Receive(ctx context.Context, poID id.ID, actorID id.ID) error {
	actor, err := s.users.ResolveActor(ctx, actorID)
	if err != nil {
		return err
	}

	err = s.txManager.RunWithRetry(ctx, func(ctx context.Context) error {
		po, err := s.repo.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}

		if po.Status == StatusReceived {
			return apperror.NewInvalidState("order has already been received").
				WithDetail("number", po.Number)
		}
		if po.Status == StatusCancelled {
			return apperror.NewInvalidState("cancelled orders cannot be received").
				WithDetail("number", po.Number)
		}

		for _, line := range po.Lines {
			p, err := s.products.GetForUpdate(ctx, line.ProductID)
			if err != nil {
				if apperror.IsNotFound(err) {
					logger.Warn(ctx, "order line skipped: product not found",
						"number", po.Number,
						"productId", line.ProductID,
						"productName", line.ProductName)
					continue
				}
				return err
			}

			p.Quantity += line.Quantity
			if line.BatchNumber != "" {
				p.BatchNumber = line.BatchNumber
			}
			if line.ExpiryDate != nil {
				p.ExpiryDate = line.ExpiryDate
			}
			if err := s.products.Update(ctx, p); err != nil {
				return err
			}

			entry := &ledger.Entry{
				ProductID:   p.ID,
				ProductName: p.Name,
				Type:        ledger.EntryInflow,
				Quantity:    line.Quantity,
				Reference:   po.Number,
				UserID:      actor.ID,
				UserName:    actor.Name,
				Notes:       fmt.Sprintf("Received from %s", po.SupplierName),
			}
			if err := s.ledger.Append(ctx, entry); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		po.Status = StatusReceived
		po.DeliveryDate = &now
		po.UpdatedBy = actor.Name

		if err := s.repo.Update(ctx, po); err != nil {
			return err
		}

		logger.Info(ctx, "purchase order received",
			"number", po.Number,
			"supplier", po.SupplierName,
			"lines", len(po.Lines),
		)
		return nil
	})
	if err != nil {
		if apperror.IsAppError(err) && !apperror.IsCode(err, apperror.CodeDatabase) {
			return err
		}
		return apperror.NewOperationFailed("order receipt", err)
	}
	return nil
}

// Cancel marks a pending order cancelled. No stock moves.
func (s *Service) Cancel(ctx context.Context, poID id.ID, actorID id.ID) error {
	actor, err := s.users.ResolveActor(ctx, actorID)
	if err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.repo.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}

		if po.Status != StatusPending {
			return apperror.NewInvalidState("only pending orders can be cancelled").
				WithDetail("number", po.Number).
				WithDetail("status", string(po.Status))
		}

		po.Status = StatusCancelled
		po.UpdatedBy = actor.Name
		return s.repo.Update(ctx, po)
	})
}

// Delete removes a pending order. Received and cancelled orders are part of
// the audit trail and cannot be deleted.
func (s *Service) Delete(ctx context.Context, poID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.repo.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}

		if po.Status != StatusPending {
			return apperror.NewInvalidState("cannot delete received or cancelled orders").
				WithDetail("number", po.Number).
				WithDetail("status", string(po.Status))
		}

		return s.repo.Delete(ctx, po.ID)
	})
}

// GetByID retrieves an order with its lines.
func (s *Service) GetByID(ctx context.Context, poID id.ID) (*PurchaseOrder, error) {
	return s.repo.GetByID(ctx, poID)
}

// List retrieves orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	return s.repo.List(ctx, filter)
}

// snapshotProductNames fills line product names from the catalog. A missing
// product only skips the snapshot; Validate decides whether the line stands.
func (s *Service) snapshotProductNames(ctx context.Context, po *PurchaseOrder) {
	for i := range po.Lines {
		if po.Lines[i].ProductName != "" {
			continue
		}
		p, err := s.products.GetByID(ctx, po.Lines[i].ProductID)
		if err != nil {
			continue
		}
		po.Lines[i].ProductName = p.Name
	}
}
