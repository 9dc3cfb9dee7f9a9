package order

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"phoenixmart/internal/domain"
	"phoenixmart/internal/repository/inventory"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	ledger *inventory.Ledger
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, ledger *inventory.Ledger, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, ledger: ledger, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	order := domain.Order{
		UserID:     in.UserID,
		TotalCents: in.TotalCents,
	}
	err = tx.QueryRow(ctx, `
INSERT INTO orders (user_id, status, total_cents)
VALUES ($1, 'pending', $2)
RETURNING id::text, status, created_at, updated_at
`, in.UserID, in.TotalCents).Scan(&order.ID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	for _, l := range in.Lines {
		var line domain.OrderLine
		err := tx.QueryRow(ctx, `
INSERT INTO order_lines (order_id, variant_id, name, quantity, price_cents)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`, order.ID, l.VariantID, l.Name, l.Quantity, l.PriceCents).Scan(&line.ID)
		if err != nil {
			return nil, err
		}
		line.OrderID = order.ID
		line.VariantID = l.VariantID
		line.Name = l.Name
		line.Quantity = l.Quantity
		line.PriceCents = l.PriceCents
		order.Lines = append(order.Lines, line)

		// The conditional decrement doubles as the authoritative stock
		// check: a failure here aborts the whole order.
		if err := r.ledger.Reserve(ctx, tx, l.VariantID, l.Name, l.Quantity); err != nil {
			return nil, err
		}
	}

	addr := domain.Address{
		OrderID:  order.ID,
		FullName: in.Address.FullName,
		Phone:    in.Address.Phone,
		Street:   in.Address.Street,
		City:     in.Address.City,
		State:    in.Address.State,
		Zipcode:  in.Address.Zipcode,
		Country:  in.Address.Country,
	}
	err = tx.QueryRow(ctx, `
INSERT INTO addresses (order_id, full_name, phone, street, city, state, zipcode, country)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id::text
`, order.ID, addr.FullName, addr.Phone, addr.Street, addr.City, addr.State, addr.Zipcode, addr.Country).Scan(&addr.ID)
	if err != nil {
		return nil, err
	}
	order.Address = &addr

	if in.ClearCartID != "" {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, in.ClearCartID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Info("order repo: created",
		zap.String("order_id", order.ID),
		zap.String("user_id", in.UserID),
		zap.Int64("total_cents", in.TotalCents),
		zap.Int("lines", len(order.Lines)),
	)
	return &order, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := r.pool.QueryRow(ctx, `
SELECT id::text, user_id::text, status, total_cents, created_at, updated_at
FROM orders
WHERE id = $1
`, id).Scan(&order.ID, &order.UserID, &order.Status, &order.TotalCents, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT id::text, order_id::text, variant_id::text, name, quantity, price_cents
FROM order_lines
WHERE order_id = $1
`, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.VariantID, &line.Name, &line.Quantity, &line.PriceCents); err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var addr domain.Address
	err = r.pool.QueryRow(ctx, `
SELECT id::text, order_id::text, full_name, phone, street, city, state, zipcode, country
FROM addresses
WHERE order_id = $1
`, order.ID).Scan(&addr.ID, &addr.OrderID, &addr.FullName, &addr.Phone, &addr.Street, &addr.City, &addr.State, &addr.Zipcode, &addr.Country)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		order.Address = &addr
	}

	return &order, nil
}

func (r *postgresRepo) SetStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET status = $1, updated_at = now()
WHERE id = $2
`, string(status), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Cancel(ctx context.Context, id string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Lock the order row so the status read and write pair cannot interleave
	// with a concurrent cancellation.
	var status domain.OrderStatus
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if status == domain.StatusCancelled {
		return tx.Commit(ctx)
	}

	if _, err := tx.Exec(ctx, `
UPDATE orders
SET status = 'cancelled', updated_at = now()
WHERE id = $1
`, id); err != nil {
		return err
	}

	rows, err := tx.Query(ctx, `
SELECT variant_id::text, quantity
FROM order_lines
WHERE order_id = $1
`, id)
	if err != nil {
		return err
	}
	type restore struct {
		variantID string
		quantity  int
	}
	var restores []restore
	for rows.Next() {
		var re restore
		if err := rows.Scan(&re.variantID, &re.quantity); err != nil {
			rows.Close()
			return err
		}
		restores = append(restores, re)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	// Status write and stock restoration commit together or not at all.
	for _, re := range restores {
		if err := r.ledger.Restore(ctx, tx, re.variantID, re.quantity); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Info("order repo: cancelled", zap.String("order_id", id), zap.Int("lines_restored", len(restores)))
	return nil
}
