package catalog

import (
	"context"

	"phoenixmart/internal/domain"
)

type Repository interface {
	ListVariants(ctx context.Context) ([]domain.Variant, error)
	GetVariant(ctx context.Context, id string) (*domain.Variant, error)
	GetVariantBySKU(ctx context.Context, sku string) (*domain.Variant, error)
}
