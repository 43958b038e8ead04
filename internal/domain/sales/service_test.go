package sales

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain"
	"pharmapos/internal/domain/catalogs/product"
	"pharmapos/internal/domain/catalogs/user"
	"pharmapos/internal/domain/company"
	"pharmapos/internal/domain/ledger"
)

// --- Test doubles ---

// stubTxManager executes the unit of work directly, with no rollback.
type stubTxManager struct{}

func (stubTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (stubTxManager) RunWithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeTxManager mimics transactional semantics over the in-memory repos:
// when the unit of work fails, every mutation made inside it is undone.
// Checkout mutates stock line by line before the transaction insert, so the
// atomicity assertions need a harness that actually rolls back.
type fakeTxManager struct {
	products *memProductRepo
	txns     *memTransactionRepo
	ledger   *memLedgerRepo
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	productState := make(map[id.ID]product.Product, len(m.products.products))
	for pid, p := range m.products.products {
		productState[pid] = *p
	}
	txnIDs := make(map[id.ID]struct{}, len(m.txns.transactions))
	for tid := range m.txns.transactions {
		txnIDs[tid] = struct{}{}
	}
	ledgerLen := len(m.ledger.entries)

	err := fn(ctx)
	if err == nil {
		return nil
	}

	// Restore in place so pointers held by the test keep their identity.
	for pid, snap := range productState {
		if p, ok := m.products.products[pid]; ok {
			*p = snap
		} else {
			restored := snap
			m.products.products[pid] = &restored
		}
	}
	for pid := range m.products.products {
		if _, ok := productState[pid]; !ok {
			delete(m.products.products, pid)
		}
	}
	for tid := range m.txns.transactions {
		if _, ok := txnIDs[tid]; !ok {
			delete(m.txns.transactions, tid)
		}
	}
	m.ledger.entries = m.ledger.entries[:ledgerLen]
	return err
}

func (m *fakeTxManager) RunWithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTransaction(ctx, fn)
}

type memProductRepo struct {
	products map[id.ID]*product.Product
}

func newMemProductRepo(products ...*product.Product) *memProductRepo {
	r := &memProductRepo{products: make(map[id.ID]*product.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *memProductRepo) Create(ctx context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID)
	}
	return p, nil
}

func (r *memProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	return r.GetByID(ctx, productID)
}

func (r *memProductRepo) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, apperror.NewNotFound("product", sku)
}

func (r *memProductRepo) GetByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	for _, p := range r.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, apperror.NewNotFound("product", barcode)
}

func (r *memProductRepo) Update(ctx context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) UpdateQuantity(ctx context.Context, productID id.ID, quantity int64) error {
	p, ok := r.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID)
	}
	p.Quantity = quantity
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, productID id.ID) error {
	delete(r.products, productID)
	return nil
}

func (r *memProductRepo) List(ctx context.Context, filter product.ListFilter) (domain.ListResult[*product.Product], error) {
	return domain.ListResult[*product.Product]{}, nil
}

type memTransactionRepo struct {
	transactions map[id.ID]*Transaction

	// failCreates rejects that many Create calls with a duplicate error,
	// simulating number collisions on insert.
	failCreates int
}

func newMemTransactionRepo() *memTransactionRepo {
	return &memTransactionRepo{transactions: make(map[id.ID]*Transaction)}
}

func (r *memTransactionRepo) Create(ctx context.Context, t *Transaction) error {
	if r.failCreates > 0 {
		r.failCreates--
		return apperror.NewDuplicate("transaction", "number", t.Number)
	}
	for _, existing := range r.transactions {
		if existing.Number == t.Number {
			return apperror.NewDuplicate("transaction", "number", t.Number)
		}
	}
	r.transactions[t.ID] = t
	return nil
}

func (r *memTransactionRepo) GetByID(ctx context.Context, txnID id.ID) (*Transaction, error) {
	t, ok := r.transactions[txnID]
	if !ok {
		return nil, apperror.NewNotFound("transaction", txnID)
	}
	return t, nil
}

func (r *memTransactionRepo) GetByNumber(ctx context.Context, number string) (*Transaction, error) {
	for _, t := range r.transactions {
		if t.Number == number {
			return t, nil
		}
	}
	return nil, apperror.NewNotFound("transaction", number)
}

func (r *memTransactionRepo) GetRefundOf(ctx context.Context, txnID id.ID) (*Transaction, error) {
	for _, t := range r.transactions {
		if t.RefundedTransactionID != nil && *t.RefundedTransactionID == txnID {
			return t, nil
		}
	}
	return nil, apperror.NewNotFound("refund of transaction", txnID)
}

func (r *memTransactionRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Transaction], error) {
	return domain.ListResult[*Transaction]{}, nil
}

type stubUserRepo struct {
	users map[id.ID]*user.User
}

func (r *stubUserRepo) Create(ctx context.Context, u *user.User) error { return nil }

func (r *stubUserRepo) GetByID(ctx context.Context, userID id.ID) (*user.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID)
	}
	return u, nil
}

func (r *stubUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", username)
}

func (r *stubUserRepo) Update(ctx context.Context, u *user.User) error { return nil }
func (r *stubUserRepo) Delete(ctx context.Context, userID id.ID) error { return nil }

func (r *stubUserRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*user.User], error) {
	return domain.ListResult[*user.User]{}, nil
}

type memLedgerRepo struct {
	entries []*ledger.Entry
}

func (r *memLedgerRepo) Append(ctx context.Context, e *ledger.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *memLedgerRepo) GetByID(ctx context.Context, entryID id.ID) (*ledger.Entry, error) {
	return nil, apperror.NewNotFound("ledger entry", entryID)
}

func (r *memLedgerRepo) List(ctx context.Context, filter ledger.ListFilter) (domain.ListResult[*ledger.Entry], error) {
	return domain.ListResult[*ledger.Entry]{}, nil
}

func (r *memLedgerRepo) SumByProduct(ctx context.Context, productID id.ID) (int64, error) {
	var sum int64
	for _, e := range r.entries {
		if e.ProductID == productID {
			sum += e.Quantity
		}
	}
	return sum, nil
}

type stubCompanyRepo struct {
	profile *company.Profile
}

func (r *stubCompanyRepo) Get(ctx context.Context) (*company.Profile, error) {
	if r.profile == nil {
		return nil, apperror.NewNotFound("company profile", "singleton")
	}
	return r.profile, nil
}

func (r *stubCompanyRepo) Create(ctx context.Context, p *company.Profile) error {
	r.profile = p
	return nil
}

func (r *stubCompanyRepo) Update(ctx context.Context, p *company.Profile) error {
	r.profile = p
	return nil
}

// --- Fixture ---

type fixture struct {
	service  *Service
	products *memProductRepo
	repo     *memTransactionRepo
	ledger   *memLedgerRepo
	cashier  *user.User
}

func newFixture(t *testing.T, taxRate types.Money, products ...*product.Product) *fixture {
	t.Helper()

	cashier := user.NewUser("jdoe", "Jane Doe", user.RoleCashier)
	userRepo := &stubUserRepo{users: map[id.ID]*user.User{cashier.ID: cashier}}

	profile := company.DefaultProfile()
	profile.Name = "Test Pharmacy"
	profile.TaxRate = taxRate
	companyRepo := &stubCompanyRepo{profile: profile}

	productRepo := newMemProductRepo(products...)
	txnRepo := newMemTransactionRepo()
	ledgerRepo := &memLedgerRepo{}
	txManager := &fakeTxManager{products: productRepo, txns: txnRepo, ledger: ledgerRepo}

	svc := NewService(
		txnRepo,
		productRepo,
		user.NewService(userRepo, nil),
		ledger.NewService(ledgerRepo),
		company.NewService(companyRepo, stubTxManager{}),
		txManager,
	)

	return &fixture{
		service:  svc,
		products: productRepo,
		repo:     txnRepo,
		ledger:   ledgerRepo,
		cashier:  cashier,
	}
}

func newTestProduct(name, sku, price string, quantity int64) *product.Product {
	p := product.NewProduct(sku, "", name, types.MustMoney(price))
	p.Code = "PRD-" + sku
	p.Quantity = quantity
	return p
}

func saleInput(cashierID id.ID, items ...SaleItem) SaleInput {
	return SaleInput{
		CashierID:     cashierID,
		Items:         items,
		PaymentMethod: types.PaymentCash,
	}
}

// --- Checkout ---

func TestCheckout_HappyPath(t *testing.T) {
	ctx := context.Background()
	paracetamol := newTestProduct("Paracetamol 500mg", "PARA-500", "10.00", 50)
	ibuprofen := newTestProduct("Ibuprofen 200mg", "IBU-200", "5.50", 20)
	f := newFixture(t, types.MustMoney("10"), paracetamol, ibuprofen)

	input := saleInput(f.cashier.ID,
		SaleItem{ProductID: paracetamol.ID, Quantity: 2, Discount: types.MustMoney("0.50")},
		SaleItem{ProductID: ibuprofen.ID, Quantity: 1},
	)
	input.Discount = types.MustMoney("1.00")

	receipt, err := f.service.Checkout(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, receipt)

	txn := receipt.Transaction
	require.Len(t, txn.Lines, 2)
	assert.True(t, strings.HasPrefix(txn.Number, "TXN-"), "number %q", txn.Number)

	// 2 x 10.00 + 1 x 5.50 = 25.50; discounts 0.50 + 1.00 = 1.50;
	// taxable 24.00; 10% tax 2.40; total 26.40
	assert.True(t, txn.Subtotal.Equal(types.MustMoney("25.50")), "subtotal %s", txn.Subtotal)
	assert.True(t, txn.Discount.Equal(types.MustMoney("1.50")), "discount %s", txn.Discount)
	assert.True(t, txn.Tax.Equal(types.MustMoney("2.40")), "tax %s", txn.Tax)
	assert.True(t, txn.Total.Equal(types.MustMoney("26.40")), "total %s", txn.Total)

	// Stock decremented
	assert.Equal(t, int64(48), paracetamol.Quantity)
	assert.Equal(t, int64(19), ibuprofen.Quantity)

	// One outflow entry per line, referencing the transaction number
	require.Len(t, f.ledger.entries, 2)
	for _, e := range f.ledger.entries {
		assert.Equal(t, ledger.EntryOutflow, e.Type)
		assert.Negative(t, e.Quantity)
		assert.Equal(t, txn.Number, e.Reference)
		assert.Equal(t, f.cashier.ID, e.UserID)
	}

	// Receipt header comes from the company profile
	assert.Equal(t, "Test Pharmacy", receipt.CompanyName)
	assert.Equal(t, "Jane Doe", receipt.Cashier)
}

func TestCheckout_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Amoxicillin 250mg", "AMOX-250", "12.00", 3)
	f := newFixture(t, types.ZeroMoney(), p)

	_, err := f.service.Checkout(ctx, saleInput(f.cashier.ID,
		SaleItem{ProductID: p.ID, Quantity: 5},
	))

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock), "got %v", err)

	// Nothing changed
	assert.Equal(t, int64(3), p.Quantity)
	assert.Empty(t, f.ledger.entries)
	assert.Empty(t, f.repo.transactions)
}

func TestCheckout_FailedLineRollsBackAppliedLines(t *testing.T) {
	ctx := context.Background()
	p1 := newTestProduct("Paracetamol 500mg", "PARA-500", "10.00", 10)
	p2 := newTestProduct("Ibuprofen 200mg", "IBU-200", "5.50", 1)
	f := newFixture(t, types.ZeroMoney(), p1, p2)

	// Line 1 is applied (stock decremented, ledger entry written) before
	// line 2 fails its stock check; the rollback must undo line 1 too.
	_, err := f.service.Checkout(ctx, saleInput(f.cashier.ID,
		SaleItem{ProductID: p1.ID, Quantity: 3},
		SaleItem{ProductID: p2.ID, Quantity: 5},
	))

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock), "got %v", err)

	assert.Equal(t, int64(10), p1.Quantity)
	assert.Equal(t, int64(1), p2.Quantity)
	assert.Empty(t, f.ledger.entries)
	assert.Empty(t, f.repo.transactions)
}

func TestCheckout_NumberCollisionRetried(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Paracetamol 500mg", "PARA-500", "10.00", 10)
	f := newFixture(t, types.ZeroMoney(), p)

	// Two colliding inserts; the third attempt lands. Each failed attempt
	// runs as its own unit of work and is rolled back before the retry.
	f.repo.failCreates = 2

	receipt, err := f.service.Checkout(ctx, saleInput(f.cashier.ID,
		SaleItem{ProductID: p.ID, Quantity: 2},
	))
	require.NoError(t, err)

	// Stock decremented and journaled exactly once
	assert.Equal(t, int64(8), p.Quantity)
	require.Len(t, f.ledger.entries, 1)
	require.Len(t, f.repo.transactions, 1)
	assert.Equal(t, receipt.Transaction.Number, f.ledger.entries[0].Reference)
}

func TestCheckout_NumberCollisionExhausted(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Paracetamol 500mg", "PARA-500", "10.00", 10)
	f := newFixture(t, types.ZeroMoney(), p)

	f.repo.failCreates = 3

	_, err := f.service.Checkout(ctx, saleInput(f.cashier.ID,
		SaleItem{ProductID: p.ID, Quantity: 2},
	))

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePaymentFailed), "got %v", err)

	// Nothing persisted
	assert.Equal(t, int64(10), p.Quantity)
	assert.Empty(t, f.ledger.entries)
	assert.Empty(t, f.repo.transactions)
}

func TestCheckout_MissingProductSkipped(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Cetirizine 10mg", "CET-10", "4.00", 10)
	f := newFixture(t, types.ZeroMoney(), p)

	receipt, err := f.service.Checkout(ctx, saleInput(f.cashier.ID,
		SaleItem{ProductID: id.New(), Quantity: 1}, // deleted between cart and checkout
		SaleItem{ProductID: p.ID, Quantity: 2},
	))
	require.NoError(t, err)

	require.Len(t, receipt.Transaction.Lines, 1)
	assert.True(t, receipt.Transaction.Subtotal.Equal(types.MustMoney("8.00")))
	assert.Equal(t, int64(8), p.Quantity)
}

func TestCheckout_AllItemsMissing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, types.ZeroMoney())

	_, err := f.service.Checkout(ctx, saleInput(f.cashier.ID,
		SaleItem{ProductID: id.New(), Quantity: 1},
	))

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeEmptyCart), "got %v", err)
}

func TestCheckout_NonCashRequiresReference(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Aspirin 100mg", "ASP-100", "3.00", 10)
	f := newFixture(t, types.ZeroMoney(), p)

	input := saleInput(f.cashier.ID, SaleItem{ProductID: p.ID, Quantity: 1})
	input.PaymentMethod = types.PaymentMobileMoney
	input.PaymentReference = "short"

	_, err := f.service.Checkout(ctx, input)

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput), "got %v", err)
	assert.Equal(t, int64(10), p.Quantity)
}

func TestCheckout_UnknownCashier(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Aspirin 100mg", "ASP-100", "3.00", 10)
	f := newFixture(t, types.ZeroMoney(), p)

	_, err := f.service.Checkout(ctx, saleInput(id.New(),
		SaleItem{ProductID: p.ID, Quantity: 1},
	))

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeActorNotFound), "got %v", err)
}

func TestCheckout_LineDiscountExceedsAmount(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Vitamin C", "VITC-1", "2.00", 10)
	f := newFixture(t, types.ZeroMoney(), p)

	_, err := f.service.Checkout(ctx, saleInput(f.cashier.ID,
		SaleItem{ProductID: p.ID, Quantity: 1, Discount: types.MustMoney("5.00")},
	))

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidInput), "got %v", err)
}

// --- Refund ---

func TestRefund_MirrorsSale(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Paracetamol 500mg", "PARA-500", "10.00", 50)
	f := newFixture(t, types.MustMoney("10"), p)

	receipt, err := f.service.Checkout(ctx, saleInput(f.cashier.ID,
		SaleItem{ProductID: p.ID, Quantity: 5},
	))
	require.NoError(t, err)
	original := receipt.Transaction
	require.Equal(t, int64(45), p.Quantity)

	refund, err := f.service.Refund(ctx, original.ID, f.cashier.ID)
	require.NoError(t, err)

	assert.Equal(t, "RFD-"+original.Number, refund.Number)
	assert.Equal(t, types.PaymentRefund, refund.PaymentMethod)
	assert.Equal(t, original.Number, refund.PaymentReference)
	require.NotNil(t, refund.RefundedTransactionID)
	assert.Equal(t, original.ID, *refund.RefundedTransactionID)

	assert.True(t, refund.Subtotal.Equal(original.Subtotal.Neg()))
	assert.True(t, refund.Total.Equal(original.Total.Neg()))
	require.Len(t, refund.Lines, 1)
	assert.Equal(t, -original.Lines[0].Quantity, refund.Lines[0].Quantity)
	assert.True(t, refund.Lines[0].Total.Equal(original.Lines[0].Total.Neg()))

	// Stock restored
	assert.Equal(t, int64(50), p.Quantity)

	// Sale outflow + refund inflow
	require.Len(t, f.ledger.entries, 2)
	inflow := f.ledger.entries[1]
	assert.Equal(t, ledger.EntryInflow, inflow.Type)
	assert.Equal(t, int64(5), inflow.Quantity)
	assert.Equal(t, refund.Number, inflow.Reference)
	assert.Contains(t, inflow.Notes, original.Number)
}

func TestRefund_Twice(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Paracetamol 500mg", "PARA-500", "10.00", 50)
	f := newFixture(t, types.ZeroMoney(), p)

	receipt, err := f.service.Checkout(ctx, saleInput(f.cashier.ID,
		SaleItem{ProductID: p.ID, Quantity: 2},
	))
	require.NoError(t, err)

	_, err = f.service.Refund(ctx, receipt.Transaction.ID, f.cashier.ID)
	require.NoError(t, err)

	_, err = f.service.Refund(ctx, receipt.Transaction.ID, f.cashier.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidState), "got %v", err)

	// Stock restored exactly once
	assert.Equal(t, int64(50), p.Quantity)
}

func TestRefund_OfRefund(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Paracetamol 500mg", "PARA-500", "10.00", 50)
	f := newFixture(t, types.ZeroMoney(), p)

	receipt, err := f.service.Checkout(ctx, saleInput(f.cashier.ID,
		SaleItem{ProductID: p.ID, Quantity: 2},
	))
	require.NoError(t, err)

	refund, err := f.service.Refund(ctx, receipt.Transaction.ID, f.cashier.ID)
	require.NoError(t, err)

	_, err = f.service.Refund(ctx, refund.ID, f.cashier.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidState), "got %v", err)
}

func TestRefund_MissingProductSkipped(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Paracetamol 500mg", "PARA-500", "10.00", 50)
	f := newFixture(t, types.ZeroMoney(), p)

	receipt, err := f.service.Checkout(ctx, saleInput(f.cashier.ID,
		SaleItem{ProductID: p.ID, Quantity: 2},
	))
	require.NoError(t, err)

	// Product deleted after the sale
	require.NoError(t, f.products.Delete(ctx, p.ID))

	refund, err := f.service.Refund(ctx, receipt.Transaction.ID, f.cashier.ID)
	require.NoError(t, err)

	// Refund document still records the line; only the restock is skipped
	require.Len(t, refund.Lines, 1)
	require.Len(t, f.ledger.entries, 1) // only the sale outflow
}
