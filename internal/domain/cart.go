package domain

import "time"

// Identity names the owner of a cart: an authenticated user or an anonymous
// session, exactly one of the two.
type Identity struct {
	UserID       *string
	SessionToken *string
}

// Validate reports whether exactly one identity component is set.
func (id Identity) Validate() error {
	if (id.UserID == nil) == (id.SessionToken == nil) {
		return &ValidationError{Field: "identity", Reason: "exactly one of user id or session token must be set"}
	}
	return nil
}

type Cart struct {
	ID           string     `json:"id"`
	UserID       *string    `json:"userId,omitempty"`
	SessionToken *string    `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	Lines        []CartLine `json:"lines,omitempty"`
}

// TotalCents sums the live line totals.
func (c Cart) TotalCents() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.TotalCents()
	}
	return total
}

// CartLine carries no stored price: UnitPriceCents is read from the catalog
// when the cart is fetched, so line totals always track the current price.
type CartLine struct {
	ID             string    `json:"id"`
	CartID         string    `json:"cartId"`
	VariantID      string    `json:"variantId"`
	Name           string    `json:"name"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (l CartLine) TotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}
