package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phoenixmart/internal/domain"
	cartsvc "phoenixmart/internal/service/cart"
)

type addItemRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  *int   `json:"quantity"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

func cartResponse(c *gin.Context, cart *domain.Cart) {
	view := cartsvc.ViewOf(cart)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"cart_count": view.ItemCount,
		"cart_total": view.Total,
		"items":      view.Items,
	})
}

func getCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Resolve(c.Request.Context(), cartIdentity(c))
		if err != nil {
			writeError(c, err)
			return
		}
		cartResponse(c, cart)
	}
}

func addCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, &domain.ValidationError{Field: "quantity", Reason: "malformed request body"})
			return
		}
		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		cart, err := svc.AddLine(c.Request.Context(), cartIdentity(c), req.VariantID, quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		cartResponse(c, cart)
	}
}

func updateCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
			writeError(c, &domain.ValidationError{Field: "quantity", Reason: "must be an integer"})
			return
		}
		cart, err := svc.SetLineQuantity(c.Request.Context(), cartIdentity(c), c.Param("lineID"), *req.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		cartResponse(c, cart)
	}
}

func removeCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.RemoveLine(c.Request.Context(), cartIdentity(c), c.Param("lineID"))
		if err != nil {
			writeError(c, err)
			return
		}
		cartResponse(c, cart)
	}
}

// mergeCartHandler is called by the auth collaborator right after it
// establishes a session, with both the old guest token and the new user id.
func mergeCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := c.MustGet(identityKey).(domain.Identity)
		if identity.UserID == nil || identity.SessionToken == nil {
			writeError(c, &domain.ValidationError{Field: "identity", Reason: "merge requires both a user id and a session token"})
			return
		}
		if err := svc.Merge(c.Request.Context(), *identity.SessionToken, *identity.UserID); err != nil {
			writeError(c, err)
			return
		}
		cart, err := svc.Resolve(c.Request.Context(), domain.Identity{UserID: identity.UserID})
		if err != nil {
			writeError(c, err)
			return
		}
		cartResponse(c, cart)
	}
}
