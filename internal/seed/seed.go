package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type variantSeed struct {
	Name       string
	SKU        string
	PriceCents int64
	Stock      int
}

type productSeed struct {
	Name     string
	Variants []variantSeed
}

// Apply inserts a small demo catalog for manual testing. It is idempotent via
// ON CONFLICT on the variant SKU.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Name: "Ribeye Steak",
			Variants: []variantSeed{
				{Name: "300g cut", SKU: "SKU-RIBEYE-300", PriceCents: 1000, Stock: 25},
				{Name: "500g cut", SKU: "SKU-RIBEYE-500", PriceCents: 1600, Stock: 15},
			},
		},
		{
			Name: "Chicken Breast",
			Variants: []variantSeed{
				{Name: "1kg pack", SKU: "SKU-CHICKEN-1KG", PriceCents: 500, Stock: 40},
			},
		},
		{
			Name: "Salmon Fillet",
			Variants: []variantSeed{
				{Name: "2-piece pack", SKU: "SKU-SALMON-2PC", PriceCents: 1250, Stock: 10},
				{Name: "4-piece pack", SKU: "SKU-SALMON-4PC", PriceCents: 2400, Stock: 6},
			},
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	var productID string
	err := pool.QueryRow(ctx, `
INSERT INTO products (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`, p.Name).Scan(&productID)
	if err != nil {
		return err
	}

	for _, v := range p.Variants {
		if _, err := pool.Exec(ctx, `
INSERT INTO product_variants (product_id, name, sku, price_cents, stock)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (sku) DO UPDATE SET price_cents = EXCLUDED.price_cents
`, productID, v.Name, v.SKU, v.PriceCents, v.Stock); err != nil {
			return err
		}
	}
	return nil
}
