package numerator

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

// Mock objects
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
	mu           sync.Mutex
	currentValue int64 // Simulates DB sequence value
	calls        int
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	// Strict strategy passes (prefix string, year int): increment is 1.
	// Cached strategy passes (key string, rangeSize int64).
	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	m.currentValue += increment
	return &mockRow{val: m.currentValue}
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("PO")
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PO-2026-00001" {
		t.Errorf("expected PO-2026-00001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PO-2026-00002" {
		t.Errorf("expected PO-2026-00002, got %s", num)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("USR")
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	opts := &Options{
		Strategy:  StrategyCached,
		RangeSize: 10,
	}

	// First call allocates the range 1..10 in one DB round trip.
	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "USR-2026-00001" {
		t.Errorf("expected USR-2026-00001, got %s", num)
	}
	if q.calls != 1 {
		t.Errorf("expected 1 DB call, got %d", q.calls)
	}

	// Subsequent calls within the range stay in memory.
	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "USR-2026-00002" {
		t.Errorf("expected USR-2026-00002, got %s", num)
	}
	if q.calls != 1 {
		t.Errorf("expected no extra DB call, got %d", q.calls)
	}

	// Exhaust the range; the next call must refill from the DB.
	for i := 0; i < 8; i++ {
		_, _ = svc.GetNextNumber(ctx, cfg, opts, period)
	}
	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "USR-2026-00011" {
		t.Errorf("expected USR-2026-00011, got %s", num)
	}
	if q.calls != 2 {
		t.Errorf("expected 2 DB calls, got %d", q.calls)
	}
}

func TestGetNextNumber_NilService(t *testing.T) {
	var svc *Service
	_, err := svc.GetNextNumber(context.Background(), DefaultConfig("X"), nil, time.Now())
	if err == nil {
		t.Fatal("expected error for nil service")
	}
}

func TestTxnNumber_Format(t *testing.T) {
	at := time.Date(2026, 3, 15, 14, 30, 45, 0, time.UTC)

	num := TxnNumber("TXN", at)

	parts := strings.Split(num, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 dash-separated parts, got %q", num)
	}
	if parts[0] != "TXN" {
		t.Errorf("expected TXN prefix, got %s", parts[0])
	}
	if parts[1] != "20260315143045" {
		t.Errorf("expected timestamp 20260315143045, got %s", parts[1])
	}
	if len(parts[2]) != 4 {
		t.Errorf("expected 4-character suffix, got %s", parts[2])
	}
	for _, c := range parts[2] {
		if !strings.ContainsRune(txnSuffixAlphabet, c) {
			t.Errorf("suffix character %q outside alphabet", c)
		}
	}
}

func TestTxnNumber_SuffixVaries(t *testing.T) {
	at := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[TxnNumber("TXN", at)] = true
	}
	// 32^4 combinations; 50 draws colliding down to 1 value would mean the
	// suffix generator is broken.
	if len(seen) < 2 {
		t.Errorf("expected varying suffixes, got %d distinct numbers", len(seen))
	}
}
