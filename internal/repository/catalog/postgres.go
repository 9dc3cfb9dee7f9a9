package catalog

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

const variantColumns = `
v.id::text, v.product_id::text, p.name, v.name, v.sku, v.price_cents, v.stock, v.created_at
`

func (r *postgresRepo) ListVariants(ctx context.Context) ([]domain.Variant, error) {
	const q = `
SELECT ` + variantColumns + `
FROM product_variants v
JOIN products p ON p.id = v.product_id
ORDER BY p.name, v.name
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("catalog repo: list variants", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Variant
	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.ProductName, &v.Name, &v.SKU, &v.PriceCents, &v.Stock, &v.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("catalog repo: list variants rows", zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetVariant(ctx context.Context, id string) (*domain.Variant, error) {
	const q = `
SELECT ` + variantColumns + `
FROM product_variants v
JOIN products p ON p.id = v.product_id
WHERE v.id = $1
`
	return r.fetchVariant(ctx, q, id)
}

func (r *postgresRepo) GetVariantBySKU(ctx context.Context, sku string) (*domain.Variant, error) {
	const q = `
SELECT ` + variantColumns + `
FROM product_variants v
JOIN products p ON p.id = v.product_id
WHERE v.sku = $1
`
	return r.fetchVariant(ctx, q, sku)
}

func (r *postgresRepo) fetchVariant(ctx context.Context, q string, arg any) (*domain.Variant, error) {
	var v domain.Variant
	err := r.pool.QueryRow(ctx, q, arg).Scan(&v.ID, &v.ProductID, &v.ProductName, &v.Name, &v.SKU, &v.PriceCents, &v.Stock, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("catalog repo: get variant", zap.Any("arg", arg), zap.Error(err))
		return nil, err
	}
	return &v, nil
}
