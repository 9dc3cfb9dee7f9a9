package domain

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is immutable once created except for Status and UpdatedAt.
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	Status     OrderStatus `json:"status"`
	TotalCents int64       `json:"totalCents"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
	Lines      []OrderLine `json:"lines,omitempty"`
	Address    *Address    `json:"address,omitempty"`
}

// OrderLine snapshots name and price at purchase time; later catalog price
// changes never alter an existing order's totals.
type OrderLine struct {
	ID         string `json:"id"`
	OrderID    string `json:"orderId"`
	VariantID  string `json:"variantId"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
}

func (l OrderLine) TotalCents() int64 {
	return l.PriceCents * int64(l.Quantity)
}

// Address holds the delivery details tied 1:1 to an order.
type Address struct {
	ID       string `json:"id"`
	OrderID  string `json:"orderId"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state,omitempty"`
	Zipcode  string `json:"zipcode"`
	Country  string `json:"country"`
}

// Line renders the single-line form used on order confirmations.
func (a Address) Line() string {
	return a.Street + ", " + a.City + ", " + a.Zipcode + ", " + a.Country
}
