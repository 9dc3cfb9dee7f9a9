package domain

import "time"

type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Variant is the purchasable unit: each variant of a product carries its own
// price and stock count. Stock is mutated only through the inventory ledger.
type Variant struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	PriceCents  int64     `json:"priceCents"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DisplayName is the customer-facing label used on cart and order lines.
func (v Variant) DisplayName() string {
	if v.Name == "" || v.Name == v.ProductName {
		return v.ProductName
	}
	return v.ProductName + " (" + v.Name + ")"
}
