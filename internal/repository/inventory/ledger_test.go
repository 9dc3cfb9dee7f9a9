package inventory

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"phoenixmart/internal/domain"
	"phoenixmart/internal/migrate"
)

func TestLedger_ReserveAndRestore(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	variantID := seedVariant(ctx, t, pool, 3)
	ledger := NewLedger(pool)

	ok, available, err := ledger.CheckAvailability(ctx, variantID, 2)
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !ok || available != 3 {
		t.Fatalf("expected ok with 3 available, got %v %d", ok, available)
	}

	if err := ledger.Reserve(ctx, pool, variantID, "Test Item", 2); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	err = ledger.Reserve(ctx, pool, variantID, "Test Item", 2)
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Available != 1 || stockErr.Requested != 2 {
		t.Fatalf("unexpected stock error %+v", stockErr)
	}

	if err := ledger.Restore(ctx, pool, variantID, 2); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	_, available, err = ledger.CheckAvailability(ctx, variantID, 1)
	if err != nil {
		t.Fatalf("CheckAvailability after restore: %v", err)
	}
	if available != 3 {
		t.Fatalf("expected 3 available after restore, got %d", available)
	}
}

func TestLedger_UnknownVariant(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	ledger := NewLedger(pool)
	missing := uuid.NewString()

	if _, _, err := ledger.CheckAvailability(ctx, missing, 1); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := ledger.Reserve(ctx, pool, missing, "", 1); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound from Reserve, got %v", err)
	}
	if err := ledger.Restore(ctx, pool, missing, 1); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound from Restore, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("test database not reachable: %v", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return pool
}

func seedVariant(ctx context.Context, t *testing.T, pool *pgxpool.Pool, stock int) string {
	t.Helper()
	var productID string
	name := "Ledger Product " + uuid.NewString()
	err := pool.QueryRow(ctx, `INSERT INTO products (name) VALUES ($1) RETURNING id::text`, name).Scan(&productID)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	var variantID string
	err = pool.QueryRow(ctx, `
INSERT INTO product_variants (product_id, sku, price_cents, stock)
VALUES ($1, $2, 100, $3)
RETURNING id::text
`, productID, uuid.NewString(), stock).Scan(&variantID)
	if err != nil {
		t.Fatalf("insert variant: %v", err)
	}
	return variantID
}
