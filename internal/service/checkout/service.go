// Package checkout implements stock-checked, all-or-nothing order placement
// from either the buyer's cart or a single buy-now item.
package checkout

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"phoenixmart/internal/domain"
	orderrepo "phoenixmart/internal/repository/order"
)

type Service struct {
	carts   cartRepo
	catalog catalogRepo
	ledger  stockChecker
	orders  orderRepo
	logger  *zap.Logger
}

type cartRepo interface {
	GetByIdentity(ctx context.Context, identity domain.Identity) (*domain.Cart, error)
}

type catalogRepo interface {
	GetVariant(ctx context.Context, id string) (*domain.Variant, error)
}

type stockChecker interface {
	CheckAvailability(ctx context.Context, variantID string, quantity int) (bool, int, error)
}

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
}

func New(carts cartRepo, catalog catalogRepo, ledger stockChecker, orders orderRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{carts: carts, catalog: catalog, ledger: ledger, orders: orders, logger: logger}
}

// PlaceOrderInput carries the checkout payload. VariantID switches the entry
// shape: empty means full-cart checkout, set means buy-now for that single
// variant (Quantity defaults to 1).
type PlaceOrderInput struct {
	FullName string
	Phone    string
	Street   string
	City     string
	State    string
	Zipcode  string
	Country  string

	VariantID string
	Quantity  int
}

// PlaceOrder validates the delivery address, resolves what to purchase, and
// creates the order in a single transaction. On any failure no order exists,
// no stock has moved, and the cart is untouched.
func (s *Service) PlaceOrder(ctx context.Context, buyerID string, in PlaceOrderInput) (*domain.Order, error) {
	if buyerID == "" {
		return nil, &domain.ValidationError{Field: "buyer", Reason: "required"}
	}
	if err := validateAddress(in); err != nil {
		return nil, err
	}

	lines, clearCartID, err := s.resolveLines(ctx, buyerID, in)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	// Early availability pass so the buyer sees which item is short. The
	// conditional decrement inside the order transaction remains the
	// authoritative guard against races.
	var total int64
	for _, l := range lines {
		ok, available, err := s.ledger.CheckAvailability(ctx, l.VariantID, l.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &domain.InsufficientStockError{
				VariantID: l.VariantID,
				Name:      l.Name,
				Requested: l.Quantity,
				Available: available,
			}
		}
		total += l.PriceCents * int64(l.Quantity)
	}

	order, err := s.orders.Create(ctx, orderrepo.CreateOrderInput{
		UserID:     buyerID,
		Lines:      lines,
		TotalCents: total,
		Address: orderrepo.AddressInput{
			FullName: in.FullName,
			Phone:    in.Phone,
			Street:   in.Street,
			City:     in.City,
			State:    in.State,
			Zipcode:  in.Zipcode,
			Country:  in.Country,
		},
		ClearCartID: clearCartID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("buyer_id", buyerID),
		zap.String("total", domain.FormatCents(order.TotalCents)),
	)
	return order, nil
}

// resolveLines produces the (variant, quantity) pairs to purchase, priced at
// the current catalog price, and the cart to clear when checking out a cart.
func (s *Service) resolveLines(ctx context.Context, buyerID string, in PlaceOrderInput) ([]orderrepo.LineInput, string, error) {
	if in.VariantID != "" {
		qty := in.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			return nil, "", &domain.ValidationError{Field: "quantity", Reason: "must be a positive integer"}
		}
		variant, err := s.catalog.GetVariant(ctx, in.VariantID)
		if err != nil {
			return nil, "", err
		}
		return []orderrepo.LineInput{{
			VariantID:  variant.ID,
			Name:       variant.DisplayName(),
			Quantity:   qty,
			PriceCents: variant.PriceCents,
		}}, "", nil
	}

	cart, err := s.carts.GetByIdentity(ctx, domain.Identity{UserID: &buyerID})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrEmptyOrder
		}
		return nil, "", err
	}
	lines := make([]orderrepo.LineInput, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, orderrepo.LineInput{
			VariantID:  l.VariantID,
			Name:       l.Name,
			Quantity:   l.Quantity,
			PriceCents: l.UnitPriceCents,
		})
	}
	return lines, cart.ID, nil
}
