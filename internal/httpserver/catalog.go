package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phoenixmart/internal/domain"
)

type productResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	SKU     string `json:"sku"`
	Price   string `json:"price"`
	InStock bool   `json:"inStock"`
}

func listProductsHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		variants, err := svc.ListVariants(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		products := make([]productResponse, 0, len(variants))
		for _, v := range variants {
			products = append(products, productResponse{
				ID:      v.ID,
				Name:    v.DisplayName(),
				SKU:     v.SKU,
				Price:   domain.FormatCents(v.PriceCents),
				InStock: v.Stock > 0,
			})
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
	}
}
