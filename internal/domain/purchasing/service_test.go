package purchasing

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain"
	"pharmapos/internal/domain/catalogs/product"
	"pharmapos/internal/domain/catalogs/supplier"
	"pharmapos/internal/domain/catalogs/user"
	"pharmapos/internal/domain/ledger"
	"pharmapos/pkg/numerator"
)

// --- Test doubles ---

type stubTxManager struct{}

func (stubTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (stubTxManager) RunWithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// mockRow / mockQuerier back the numerator with an in-memory sequence.
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	currentValue int64
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.currentValue++
	return &mockRow{val: m.currentValue}
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
	return nil, apperror.NewNotFound("product", sku)
}

func (r *memProductRepo) GetByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
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

type stubSupplierRepo struct {
	suppliers map[id.ID]*supplier.Supplier
}

func (r *stubSupplierRepo) Create(ctx context.Context, s *supplier.Supplier) error { return nil }

func (r *stubSupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	s, ok := r.suppliers[supplierID]
	if !ok {
		return nil, apperror.NewNotFound("supplier", supplierID)
	}
	return s, nil
}

func (r *stubSupplierRepo) Update(ctx context.Context, s *supplier.Supplier) error { return nil }
func (r *stubSupplierRepo) Delete(ctx context.Context, supplierID id.ID) error     { return nil }

func (r *stubSupplierRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*supplier.Supplier], error) {
	return domain.ListResult[*supplier.Supplier]{}, nil
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
	return 0, nil
}

type memOrderRepo struct {
	orders map[id.ID]*PurchaseOrder
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[id.ID]*PurchaseOrder)}
}

func (r *memOrderRepo) Create(ctx context.Context, po *PurchaseOrder) error {
	r.orders[po.ID] = po
	return nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, poID id.ID) (*PurchaseOrder, error) {
	po, ok := r.orders[poID]
	if !ok {
		return nil, apperror.NewNotFound("purchase order", poID)
	}
	return po, nil
}

func (r *memOrderRepo) GetForUpdate(ctx context.Context, poID id.ID) (*PurchaseOrder, error) {
	return r.GetByID(ctx, poID)
}

func (r *memOrderRepo) GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error) {
	for _, po := range r.orders {
		if po.Number == number {
			return po, nil
		}
	}
	return nil, apperror.NewNotFound("purchase order", number)
}

func (r *memOrderRepo) Update(ctx context.Context, po *PurchaseOrder) error {
	r.orders[po.ID] = po
	return nil
}

func (r *memOrderRepo) Delete(ctx context.Context, poID id.ID) error {
	delete(r.orders, poID)
	return nil
}

func (r *memOrderRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	return domain.ListResult[*PurchaseOrder]{}, nil
}

// --- Fixture ---

type fixture struct {
	service  *Service
	products *memProductRepo
	repo     *memOrderRepo
	ledger   *memLedgerRepo
	supplier *supplier.Supplier
	actor    *user.User
}

func newFixture(t *testing.T, products ...*product.Product) *fixture {
	t.Helper()

	actor := user.NewUser("storekeeper", "Sam Keeper", user.RolePharmacist)
	userRepo := &stubUserRepo{users: map[id.ID]*user.User{actor.ID: actor}}

	sup := supplier.NewSupplier("MedSupply Ltd")
	supplierRepo := &stubSupplierRepo{suppliers: map[id.ID]*supplier.Supplier{sup.ID: sup}}

	productRepo := newMemProductRepo(products...)
	orderRepo := newMemOrderRepo()
	ledgerRepo := &memLedgerRepo{}

	svc := NewService(
		orderRepo,
		productRepo,
		supplierRepo,
		user.NewService(userRepo, nil),
		ledger.NewService(ledgerRepo),
		numerator.New(&mockQuerier{}),
		stubTxManager{},
	)

	return &fixture{
		service:  svc,
		products: productRepo,
		repo:     orderRepo,
		ledger:   ledgerRepo,
		supplier: sup,
		actor:    actor,
	}
}

func newTestProduct(name, sku string, quantity int64) *product.Product {
	p := product.NewProduct(sku, "", name, types.MustMoney("5.00"))
	p.Quantity = quantity
	return p
}

func pendingOrder(f *fixture, lines ...Line) *PurchaseOrder {
	po := NewPurchaseOrder(f.supplier.ID, "")
	po.Date = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	po.ExpectedDeliveryDate = time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	po.Lines = lines
	return po
}

// --- Create ---

func TestCreate_AssignsNumberAndTotals(t *testing.T) {
	ctx := context.Background()
	p1 := newTestProduct("Paracetamol 500mg", "PARA-500", 10)
	p2 := newTestProduct("Ibuprofen 200mg", "IBU-200", 5)
	f := newFixture(t, p1, p2)

	po := pendingOrder(f,
		Line{ID: id.New(), ProductID: p1.ID, Quantity: 100, UnitPrice: types.MustMoney("3.25")},
		Line{ID: id.New(), ProductID: p2.ID, Quantity: 40, UnitPrice: types.MustMoney("1.10")},
	)

	require.NoError(t, f.service.Create(ctx, po, f.actor.ID))

	assert.Equal(t, "PO-2026-00001", po.Number)
	assert.Equal(t, StatusPending, po.Status)
	assert.Equal(t, "MedSupply Ltd", po.SupplierName)
	assert.Equal(t, "Sam Keeper", po.CreatedBy)

	// 100 x 3.25 + 40 x 1.10 = 369.00
	assert.True(t, po.TotalAmount.Equal(types.MustMoney("369.00")), "total %s", po.TotalAmount)
	assert.True(t, po.Lines[0].LineTotal.Equal(types.MustMoney("325.00")))
	assert.Equal(t, "Paracetamol 500mg", po.Lines[0].ProductName)

	// Numbers are sequential within the year
	po2 := pendingOrder(f,
		Line{ID: id.New(), ProductID: p1.ID, Quantity: 1, UnitPrice: types.MustMoney("3.25")},
	)
	require.NoError(t, f.service.Create(ctx, po2, f.actor.ID))
	assert.Equal(t, "PO-2026-00002", po2.Number)
}

func TestCreate_UnknownSupplier(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Paracetamol 500mg", "PARA-500", 10)
	f := newFixture(t, p)

	po := pendingOrder(f,
		Line{ID: id.New(), ProductID: p.ID, Quantity: 1, UnitPrice: types.MustMoney("1.00")},
	)
	po.SupplierID = id.New()

	err := f.service.Create(ctx, po, f.actor.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err), "got %v", err)
}

func TestCreate_EmptyLines(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.service.Create(ctx, pendingOrder(f), f.actor.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "got %v", err)
}

// --- Receive ---

func TestReceive_RestocksAndJournals(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Amoxicillin 250mg", "AMOX-250", 7)
	f := newFixture(t, p)

	expiry := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	po := pendingOrder(f, Line{
		ID:          id.New(),
		ProductID:   p.ID,
		Quantity:    50,
		UnitPrice:   types.MustMoney("2.00"),
		BatchNumber: "B-2026-117",
		ExpiryDate:  &expiry,
	})
	require.NoError(t, f.service.Create(ctx, po, f.actor.ID))

	require.NoError(t, f.service.Receive(ctx, po.ID, f.actor.ID))

	assert.Equal(t, int64(57), p.Quantity)
	assert.Equal(t, "B-2026-117", p.BatchNumber)
	require.NotNil(t, p.ExpiryDate)
	assert.True(t, p.ExpiryDate.Equal(expiry))

	assert.Equal(t, StatusReceived, po.Status)
	assert.NotNil(t, po.DeliveryDate)

	require.Len(t, f.ledger.entries, 1)
	entry := f.ledger.entries[0]
	assert.Equal(t, ledger.EntryInflow, entry.Type)
	assert.Equal(t, int64(50), entry.Quantity)
	assert.Equal(t, po.Number, entry.Reference)
	assert.Equal(t, "Received from MedSupply Ltd", entry.Notes)
	assert.Equal(t, f.actor.ID, entry.UserID)
}

func TestReceive_KeepsBatchWhenLineHasNone(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Amoxicillin 250mg", "AMOX-250", 7)
	p.BatchNumber = "B-OLD"
	f := newFixture(t, p)

	po := pendingOrder(f, Line{
		ID: id.New(), ProductID: p.ID, Quantity: 10, UnitPrice: types.MustMoney("2.00"),
	})
	require.NoError(t, f.service.Create(ctx, po, f.actor.ID))
	require.NoError(t, f.service.Receive(ctx, po.ID, f.actor.ID))

	assert.Equal(t, "B-OLD", p.BatchNumber)
	assert.Nil(t, p.ExpiryDate)
}

func TestReceive_Twice(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Amoxicillin 250mg", "AMOX-250", 0)
	f := newFixture(t, p)

	po := pendingOrder(f, Line{
		ID: id.New(), ProductID: p.ID, Quantity: 10, UnitPrice: types.MustMoney("2.00"),
	})
	require.NoError(t, f.service.Create(ctx, po, f.actor.ID))
	require.NoError(t, f.service.Receive(ctx, po.ID, f.actor.ID))

	err := f.service.Receive(ctx, po.ID, f.actor.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidState), "got %v", err)

	// Restocked exactly once
	assert.Equal(t, int64(10), p.Quantity)
	assert.Len(t, f.ledger.entries, 1)
}

func TestReceive_Cancelled(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Amoxicillin 250mg", "AMOX-250", 0)
	f := newFixture(t, p)

	po := pendingOrder(f, Line{
		ID: id.New(), ProductID: p.ID, Quantity: 10, UnitPrice: types.MustMoney("2.00"),
	})
	require.NoError(t, f.service.Create(ctx, po, f.actor.ID))
	require.NoError(t, f.service.Cancel(ctx, po.ID, f.actor.ID))

	err := f.service.Receive(ctx, po.ID, f.actor.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidState), "got %v", err)
	assert.Equal(t, int64(0), p.Quantity)
}

func TestReceive_MissingProductSkipped(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Amoxicillin 250mg", "AMOX-250", 0)
	f := newFixture(t, p)

	po := pendingOrder(f, Line{
		ID: id.New(), ProductID: p.ID, Quantity: 10, UnitPrice: types.MustMoney("2.00"),
	})
	require.NoError(t, f.service.Create(ctx, po, f.actor.ID))

	// Product deleted while the order was in transit
	require.NoError(t, f.products.Delete(ctx, p.ID))

	require.NoError(t, f.service.Receive(ctx, po.ID, f.actor.ID))
	assert.Equal(t, StatusReceived, po.Status)
	assert.Empty(t, f.ledger.entries)
}

// --- Cancel / Delete ---

func TestCancel_NonPending(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Amoxicillin 250mg", "AMOX-250", 0)
	f := newFixture(t, p)

	po := pendingOrder(f, Line{
		ID: id.New(), ProductID: p.ID, Quantity: 10, UnitPrice: types.MustMoney("2.00"),
	})
	require.NoError(t, f.service.Create(ctx, po, f.actor.ID))
	require.NoError(t, f.service.Receive(ctx, po.ID, f.actor.ID))

	err := f.service.Cancel(ctx, po.ID, f.actor.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidState), "got %v", err)
}

func TestDelete_PendingOnly(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Amoxicillin 250mg", "AMOX-250", 0)
	f := newFixture(t, p)

	received := pendingOrder(f, Line{
		ID: id.New(), ProductID: p.ID, Quantity: 10, UnitPrice: types.MustMoney("2.00"),
	})
	require.NoError(t, f.service.Create(ctx, received, f.actor.ID))
	require.NoError(t, f.service.Receive(ctx, received.ID, f.actor.ID))

	err := f.service.Delete(ctx, received.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidState), "got %v", err)

	pending := pendingOrder(f, Line{
		ID: id.New(), ProductID: p.ID, Quantity: 5, UnitPrice: types.MustMoney("2.00"),
	})
	require.NoError(t, f.service.Create(ctx, pending, f.actor.ID))
	require.NoError(t, f.service.Delete(ctx, pending.ID))

	_, err = f.service.GetByID(ctx, pending.ID)
	assert.True(t, apperror.IsNotFound(err))
}

// --- Update ---

func TestUpdate_StatusReceivedAppliesEditsThenReceives(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Amoxicillin 250mg", "AMOX-250", 3)
	f := newFixture(t, p)

	po := pendingOrder(f, Line{
		ID: id.New(), ProductID: p.ID, Quantity: 10, UnitPrice: types.MustMoney("2.00"),
	})
	require.NoError(t, f.service.Create(ctx, po, f.actor.ID))

	// The payload carries both field edits and the status flip; nothing
	// from it may be lost on the receive path.
	edit := *po
	edit.Status = StatusReceived
	edit.Notes = "delivered a day early"
	edit.Lines = []Line{
		{ID: id.New(), ProductID: p.ID, Quantity: 12, UnitPrice: types.MustMoney("2.00")},
	}
	require.NoError(t, f.service.Update(ctx, &edit, f.actor.ID))

	stored, err := f.service.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, stored.Status)
	assert.Equal(t, "delivered a day early", stored.Notes)
	assert.NotNil(t, stored.DeliveryDate)
	assert.True(t, stored.TotalAmount.Equal(types.MustMoney("24.00")), "total %s", stored.TotalAmount)

	// The edited line was restocked, not the original one
	assert.Equal(t, int64(15), p.Quantity)
	require.Len(t, f.ledger.entries, 1)
	assert.Equal(t, int64(12), f.ledger.entries[0].Quantity)
}

func TestUpdate_UnknownStatus(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Amoxicillin 250mg", "AMOX-250", 0)
	f := newFixture(t, p)

	po := pendingOrder(f, Line{
		ID: id.New(), ProductID: p.ID, Quantity: 10, UnitPrice: types.MustMoney("2.00"),
	})
	require.NoError(t, f.service.Create(ctx, po, f.actor.ID))

	edit := *po
	edit.Status = "shipped"
	err := f.service.Update(ctx, &edit, f.actor.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "got %v", err)
}

func TestUpdate_NonPending(t *testing.T) {
	ctx := context.Background()
	p := newTestProduct("Amoxicillin 250mg", "AMOX-250", 0)
	f := newFixture(t, p)

	po := pendingOrder(f, Line{
		ID: id.New(), ProductID: p.ID, Quantity: 10, UnitPrice: types.MustMoney("2.00"),
	})
	require.NoError(t, f.service.Create(ctx, po, f.actor.ID))
	require.NoError(t, f.service.Receive(ctx, po.ID, f.actor.ID))

	edit := *po
	edit.Status = StatusPending
	err := f.service.Update(ctx, &edit, f.actor.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidState), "got %v", err)
}
