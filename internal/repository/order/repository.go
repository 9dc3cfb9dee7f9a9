package order

import (
	"context"

	"phoenixmart/internal/domain"
)

type LineInput struct {
	VariantID  string
	Name       string
	Quantity   int
	PriceCents int64
}

type AddressInput struct {
	FullName string
	Phone    string
	Street   string
	City     string
	State    string
	Zipcode  string
	Country  string
}

type CreateOrderInput struct {
	UserID     string
	Lines      []LineInput
	TotalCents int64
	Address    AddressInput
	// ClearCartID, when set, clears that cart's lines in the same
	// transaction (full-cart checkout). Empty for buy-now.
	ClearCartID string
}

type Repository interface {
	// Create places the order atomically: order row, snapshot-priced lines,
	// stock reservation, address, and cart clearing commit together or not
	// at all.
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	SetStatus(ctx context.Context, id string, status domain.OrderStatus) error
	// Cancel sets the status to cancelled and restores every line's stock in
	// one transaction. Cancelling an already-cancelled order is a no-op.
	Cancel(ctx context.Context, id string) error
}
