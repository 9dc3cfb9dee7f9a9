package cart

import (
	"context"

	"phoenixmart/internal/domain"
)

type Repository interface {
	// Create inserts a cart for the identity, or returns the existing one
	// when a concurrent request created it first.
	Create(ctx context.Context, identity domain.Identity) (*domain.Cart, error)
	GetByIdentity(ctx context.Context, identity domain.Identity) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID, variantID string, quantity int) error
	SetLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, lineID string) error
	// Merge folds every line of the source cart into the target cart,
	// summing quantities per variant, then deletes the source cart.
	Merge(ctx context.Context, sourceCartID, targetCartID string) error
}
