// Package inventory owns all stock mutation for product variants. Decrements
// go through Reserve, which only succeeds while enough stock remains, so two
// racing checkouts can never drive a count below zero.
package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"phoenixmart/internal/domain"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting Reserve and
// Restore participate in the caller's transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Ledger struct {
	pool *pgxpool.Pool
}

func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

// CheckAvailability is a pure read: it reports whether quantity units of the
// variant are currently in stock, and how many are available.
func (l *Ledger) CheckAvailability(ctx context.Context, variantID string, quantity int) (bool, int, error) {
	var available int
	err := l.pool.QueryRow(ctx, `SELECT stock FROM product_variants WHERE id = $1`, variantID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, 0, domain.ErrNotFound
		}
		return false, 0, err
	}
	return quantity <= available, available, nil
}

// Reserve decrements stock by quantity with a conditional update, so the
// availability check and the decrement are a single atomic statement. When
// stock has run out it returns an InsufficientStockError carrying the count
// still available at that moment.
func (l *Ledger) Reserve(ctx context.Context, q Querier, variantID, name string, quantity int) error {
	tag, err := q.Exec(ctx, `
UPDATE product_variants
SET stock = stock - $1
WHERE id = $2 AND stock >= $1
`, quantity, variantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var available int
		if err := q.QueryRow(ctx, `SELECT stock FROM product_variants WHERE id = $1`, variantID).Scan(&available); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		return &domain.InsufficientStockError{
			VariantID: variantID,
			Name:      name,
			Requested: quantity,
			Available: available,
		}
	}
	return nil
}

// Restore increments stock by quantity. There is no upper bound: restoring a
// cancelled order behaves like a plain restock.
func (l *Ledger) Restore(ctx context.Context, q Querier, variantID string, quantity int) error {
	tag, err := q.Exec(ctx, `
UPDATE product_variants
SET stock = stock + $1
WHERE id = $2
`, quantity, variantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
