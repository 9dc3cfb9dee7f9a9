package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"phoenixmart/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const cartColumns = `id::text, user_id::text, session_token, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, identity domain.Identity) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id, session_token)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
RETURNING ` + cartColumns + `
`
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, q, identity.UserID, identity.SessionToken).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.SessionToken,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		// Conflict on the per-identity unique index: a concurrent request
		// resolved the same identity first. Return its cart.
		if errors.Is(err, pgx.ErrNoRows) {
			return r.GetByIdentity(ctx, identity)
		}
		r.logger.Error("cart repo: create", zap.Error(err))
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) GetByIdentity(ctx context.Context, identity domain.Identity) (*domain.Cart, error) {
	if identity.UserID != nil {
		return r.fetchCart(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE user_id = $1
`, *identity.UserID)
	}
	return r.fetchCart(ctx, `
SELECT `+cartColumns+`
FROM carts
WHERE session_token = $1
`, *identity.SessionToken)
}

func (r *postgresRepo) AddLine(ctx context.Context, cartID, variantID string, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, variant_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (cart_id, variant_id)
DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
`, cartID, variantID, quantity); err != nil {
		return err
	}

	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) SetLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Setting a quantity at or below zero removes the line.
	if quantity <= 0 {
		cmd, err := tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE id = $1 AND cart_id = $2
`, lineID, cartID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
	} else {
		cmd, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1
WHERE id = $2 AND cart_id = $3
`, quantity, lineID, cartID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
	}

	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveLine(ctx context.Context, cartID, lineID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE id = $1 AND cart_id = $2
`, lineID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) Merge(ctx context.Context, sourceCartID, targetCartID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Move every source line into the target, summing quantities where the
	// target already has a line for the same variant.
	if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, variant_id, quantity)
SELECT $1, variant_id, quantity
FROM cart_lines
WHERE cart_id = $2
ON CONFLICT (cart_id, variant_id)
DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
`, targetCartID, sourceCartID); err != nil {
		return err
	}

	// Source cart goes away entirely; its lines cascade.
	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, sourceCartID); err != nil {
		return err
	}

	if err := touchCart(ctx, tx, targetCartID); err != nil {
		return err
	}

	r.logger.Info("cart repo: merged",
		zap.String("source_cart_id", sourceCartID),
		zap.String("target_cart_id", targetCartID),
	)
	return tx.Commit(ctx)
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...any) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, args...).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.SessionToken,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	// Unit prices come from the catalog at read time, never from the line.
	const linesQuery = `
SELECT l.id::text, l.cart_id::text, l.variant_id::text,
       p.name, v.name, v.price_cents, l.quantity, l.created_at
FROM cart_lines l
JOIN product_variants v ON v.id = l.variant_id
JOIN products p ON p.id = v.product_id
WHERE l.cart_id = $1
ORDER BY l.created_at ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		var productName, variantName string
		if err := rows.Scan(
			&line.ID,
			&line.CartID,
			&line.VariantID,
			&productName,
			&variantName,
			&line.UnitPriceCents,
			&line.Quantity,
			&line.CreatedAt,
		); err != nil {
			return nil, err
		}
		line.Name = domain.Variant{ProductName: productName, Name: variantName}.DisplayName()
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

func touchCart(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID)
	return err
}
