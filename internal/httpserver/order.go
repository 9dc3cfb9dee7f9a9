package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phoenixmart/internal/domain"
	checkoutsvc "phoenixmart/internal/service/checkout"
)

type placeOrderRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zipcode  string `json:"zipcode"`
	Country  string `json:"country"`

	// Buy-now fields; omitted for a full-cart checkout.
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type orderLineResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

func orderResponse(order *domain.Order) gin.H {
	lines := make([]orderLineResponse, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, orderLineResponse{
			ID:        l.ID,
			Name:      l.Name,
			UnitPrice: domain.FormatCents(l.PriceCents),
			Quantity:  l.Quantity,
			LineTotal: domain.FormatCents(l.TotalCents()),
		})
	}
	resp := gin.H{
		"success":     true,
		"order_id":    order.ID,
		"status":      order.Status,
		"total_price": domain.FormatCents(order.TotalCents),
		"lines":       lines,
	}
	if order.Address != nil {
		resp["delivery_address"] = order.Address.Line()
	}
	return resp
}

func placeOrderHandler(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := c.MustGet(identityKey).(domain.Identity)
		if identity.UserID == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "checkout requires an authenticated user",
			})
			return
		}

		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, &domain.ValidationError{Field: "body", Reason: "malformed request body"})
			return
		}

		order, err := svc.PlaceOrder(c.Request.Context(), *identity.UserID, checkoutsvc.PlaceOrderInput{
			FullName:  req.FullName,
			Phone:     req.Phone,
			Street:    req.Street,
			City:      req.City,
			State:     req.State,
			Zipcode:   req.Zipcode,
			Country:   req.Country,
			VariantID: req.VariantID,
			Quantity:  req.Quantity,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, orderResponse(order))
	}
}

func getOrderHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, orderResponse(order))
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func updateOrderStatusHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, &domain.ValidationError{Field: "status", Reason: "malformed request body"})
			return
		}
		if err := svc.TransitionStatus(c.Request.Context(), c.Param("id"), domain.OrderStatus(req.Status)); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "status": req.Status})
	}
}
