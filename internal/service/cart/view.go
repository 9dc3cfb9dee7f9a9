package cart

import "phoenixmart/internal/domain"

// View is the shape handed to the rendering collaborator: item count, a
// fixed two-decimal total, and per-line totals.
type View struct {
	ItemCount int        `json:"cartCount"`
	Total     string     `json:"cartTotal"`
	Items     []LineView `json:"items"`
}

type LineView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

// ViewOf flattens a cart into its rendered summary.
func ViewOf(c *domain.Cart) View {
	items := make([]LineView, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, LineView{
			ID:        l.ID,
			Name:      l.Name,
			UnitPrice: domain.FormatCents(l.UnitPriceCents),
			Quantity:  l.Quantity,
			LineTotal: domain.FormatCents(l.TotalCents()),
		})
	}
	return View{
		ItemCount: len(items),
		Total:     domain.FormatCents(c.TotalCents()),
		Items:     items,
	}
}
