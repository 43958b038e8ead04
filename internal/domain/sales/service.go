package sales

import (
	"context"
	"fmt"
	"time"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/entity"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/tx"
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain"
	"pharmapos/internal/domain/catalogs/product"
	"pharmapos/internal/domain/catalogs/user"
	"pharmapos/internal/domain/company"
	"pharmapos/internal/domain/ledger"
	"pharmapos/pkg/logger"
	"pharmapos/pkg/numerator"
)

// numberRetries bounds regeneration attempts when a generated transaction
// number collides with an existing one.
const numberRetries = 3

// Service implements checkout and refund.
type Service struct {
	repo      Repository
	products  product.Repository
	users     *user.Service
	ledger    *ledger.Service
	profile   *company.Service
	txManager tx.RetryingManager

	// now is a clock seam for tests
	now func() time.Time
}

// NewService creates a new sales service.
func NewService(
	repo Repository,
	products product.Repository,
	users *user.Service,
	ledgerSvc *ledger.Service,
	profile *company.Service,
	txManager tx.RetryingManager,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		users:     users,
		ledger:    ledgerSvc,
		profile:   profile,
		txManager: txManager,
		now:       time.Now,
	}
}

// Checkout processes a sale atomically: for every cart item it locks the
// product row, verifies stock, decrements the quantity and appends a ledger
// entry, then inserts the transaction. Any failure rolls everything back,
// so a rejected sale leaves no trace.
func (s *Service) Checkout(ctx context.Context, input SaleInput) (*Receipt, error) {
	if err := input.Validate(ctx); err != nil {
		return nil, err
	}

	actor, err := s.users.ResolveActor(ctx, input.CashierID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profile.GetProfile(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()

	txn := &Transaction{
		Document:         entity.NewDocument(),
		CashierID:        actor.ID,
		CashierName:      actor.Name,
		PaymentMethod:    input.PaymentMethod,
		PaymentReference: input.PaymentReference,
		CustomerName:     input.CustomerName,
		CustomerPhone:    input.CustomerPhone,
	}
	txn.Date = now
	txn.Notes = input.Notes
	txn.CreatedBy = actor.Name

	// A colliding number aborts the insert's transaction, so regeneration
	// must restart the whole unit of work with a fresh number rather than
	// re-issue the insert inside the aborted one.
	for attempt := 0; attempt < numberRetries; attempt++ {
		txn.Number = numerator.TxnNumber("TXN", s.now())

		err = s.txManager.RunWithRetry(ctx, func(ctx context.Context) error {
			return s.applySale(ctx, txn, input, actor, profile)
		})
		if !apperror.IsCode(err, apperror.CodeDuplicate) {
			break
		}
	}
	if err != nil {
		if apperror.IsCode(err, apperror.CodeDuplicate) {
			return nil, apperror.NewPaymentFailed(
				fmt.Errorf("transaction number collision persisted after %d attempts: %w", numberRetries, err))
		}
		if apperror.IsAppError(err) && !apperror.IsCode(err, apperror.CodeDatabase) {
			return nil, err
		}
		return nil, apperror.NewPaymentFailed(err)
	}

	logger.Info(ctx, "sale completed",
		"number", txn.Number,
		"cashier", actor.Name,
		"lines", len(txn.Lines),
		"total", txn.Total,
	)

	return BuildReceipt(txn, profile), nil
}

// applySale runs inside a transaction. Items are processed in cart order so
// concurrent checkouts touching the same products lock rows in a consistent
// sequence per cart.
func (s *Service) applySale(ctx context.Context, txn *Transaction, input SaleInput, actor domain.Actor, profile *company.Profile) error {
	txn.Lines = txn.Lines[:0]
	subtotal := types.ZeroMoney()
	lineDiscounts := types.ZeroMoney()

	for _, item := range input.Items {
		p, err := s.products.GetForUpdate(ctx, item.ProductID)
		if err != nil {
			if apperror.IsNotFound(err) {
				// A product removed between cart assembly and checkout is
				// skipped rather than failing the whole sale.
				logger.Warn(ctx, "cart item skipped: product not found",
					"productId", item.ProductID)
				continue
			}
			return err
		}

		if p.Quantity < item.Quantity {
			return apperror.NewInsufficientStock(p.Name, item.Quantity, p.Quantity)
		}

		lineTotal := p.UnitPrice.Mul(types.NewMoneyFromInt(item.Quantity)).Sub(item.Discount)
		if lineTotal.IsNegative() {
			return apperror.NewInvalidInput("line discount exceeds line amount").
				WithDetail("product", p.Name)
		}

		if err := s.products.UpdateQuantity(ctx, p.ID, p.Quantity-item.Quantity); err != nil {
			return err
		}

		txn.Lines = append(txn.Lines, Line{
			ID:            id.New(),
			TransactionID: txn.ID,
			ProductID:     p.ID,
			ProductName:   p.Name,
			SKU:           p.SKU,
			Category:      p.Category,
			Quantity:      item.Quantity,
			UnitPrice:     p.UnitPrice,
			Discount:      item.Discount,
			Total:         lineTotal,
		})

		subtotal = subtotal.Add(p.UnitPrice.Mul(types.NewMoneyFromInt(item.Quantity)))
		lineDiscounts = lineDiscounts.Add(item.Discount)
	}

	if len(txn.Lines) == 0 {
		return apperror.NewEmptyCart()
	}

	txn.Subtotal = subtotal
	txn.Discount = lineDiscounts.Add(input.Discount)
	taxable := subtotal.Sub(txn.Discount)
	if taxable.IsNegative() {
		return apperror.NewInvalidInput("discount exceeds sale amount")
	}
	txn.Tax = taxable.Mul(profile.TaxRate).Div(types.NewMoneyFromInt(100)).Round(2)
	txn.Total = taxable.Add(txn.Tax)

	if err := s.repo.Create(ctx, txn); err != nil {
		return err
	}

	// One outflow entry per applied line, referencing the transaction number.
	for _, line := range txn.Lines {
		entry := &ledger.Entry{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Type:        ledger.EntryOutflow,
			Quantity:    -line.Quantity,
			Reference:   txn.Number,
			UserID:      actor.ID,
			UserName:    actor.Name,
		}
		if err := s.ledger.Append(ctx, entry); err != nil {
			return err
		}
	}

	return nil
}

// Refund reverses a completed sale: restores stock for every line, appends
// mirrored inflow entries and records a refund transaction with negated
// amounts. A sale can be refunded at most once.
func (s *Service) Refund(ctx context.Context, txnID id.ID, actorID id.ID) (*Transaction, error) {
	actor, err := s.users.ResolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	original, err := s.repo.GetByID(ctx, txnID)
	if err != nil {
		return nil, err
	}

	if original.IsRefund() {
		return nil, apperror.NewInvalidState("cannot refund a refund transaction").
			WithDetail("number", original.Number)
	}

	if existing, err := s.repo.GetRefundOf(ctx, original.ID); err == nil {
		return nil, apperror.NewInvalidState("transaction has already been refunded").
			WithDetail("number", original.Number).
			WithDetail("refundNumber", existing.Number)
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	refund := s.mirrorTransaction(original, actor)

	err = s.txManager.RunWithRetry(ctx, func(ctx context.Context) error {
		for _, line := range original.Lines {
			p, err := s.products.GetForUpdate(ctx, line.ProductID)
			if err != nil {
				if apperror.IsNotFound(err) {
					logger.Warn(ctx, "refund line skipped: product not found",
						"productId", line.ProductID,
						"productName", line.ProductName)
					continue
				}
				return err
			}

			if err := s.products.UpdateQuantity(ctx, p.ID, p.Quantity+line.Quantity); err != nil {
				return err
			}

			entry := &ledger.Entry{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Type:        ledger.EntryInflow,
				Quantity:    line.Quantity,
				Reference:   refund.Number,
				UserID:      actor.ID,
				UserName:    actor.Name,
				Notes:       fmt.Sprintf("Refund of %s", original.Number),
			}
			if err := s.ledger.Append(ctx, entry); err != nil {
				return err
			}
		}

		return s.repo.Create(ctx, refund)
	})
	if err != nil {
		if apperror.IsAppError(err) && !apperror.IsCode(err, apperror.CodeDatabase) {
			return nil, err
		}
		return nil, apperror.NewOperationFailed("refund", err)
	}

	logger.Info(ctx, "refund completed",
		"number", refund.Number,
		"original", original.Number,
		"actor", actor.Name,
	)

	return refund, nil
}

// mirrorTransaction builds the refund document: same lines, negated amounts.
func (s *Service) mirrorTransaction(original *Transaction, actor domain.Actor) *Transaction {
	refund := &Transaction{
		Document:              entity.NewDocument(),
		CashierID:             actor.ID,
		CashierName:           actor.Name,
		Subtotal:              original.Subtotal.Neg(),
		Discount:              original.Discount.Neg(),
		Tax:                   original.Tax.Neg(),
		Total:                 original.Total.Neg(),
		PaymentMethod:         types.PaymentRefund,
		PaymentReference:      original.Number,
		CustomerName:          original.CustomerName,
		CustomerPhone:         original.CustomerPhone,
		RefundedTransactionID: &original.ID,
	}
	refund.Number = "RFD-" + original.Number
	refund.Date = s.now().UTC()
	refund.Notes = fmt.Sprintf("Refund of transaction %s", original.Number)
	refund.CreatedBy = actor.Name

	refund.Lines = make([]Line, 0, len(original.Lines))
	for _, line := range original.Lines {
		refund.Lines = append(refund.Lines, Line{
			ID:            id.New(),
			TransactionID: refund.ID,
			ProductID:     line.ProductID,
			ProductName:   line.ProductName,
			SKU:           line.SKU,
			Category:      line.Category,
			Quantity:      -line.Quantity,
			UnitPrice:     line.UnitPrice,
			Discount:      line.Discount.Neg(),
			Total:         line.Total.Neg(),
		})
	}

	return refund
}

// GetByID retrieves a transaction with its lines.
func (s *Service) GetByID(ctx context.Context, txnID id.ID) (*Transaction, error) {
	return s.repo.GetByID(ctx, txnID)
}

// GetReceipt rebuilds the receipt projection for a stored transaction.
func (s *Service) GetReceipt(ctx context.Context, txnID id.ID) (*Receipt, error) {
	txn, err := s.repo.GetByID(ctx, txnID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profile.GetProfile(ctx)
	if err != nil {
		return nil, err
	}

	return BuildReceipt(txn, profile), nil
}

// List retrieves transactions with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Transaction], error) {
	return s.repo.List(ctx, filter)
}
