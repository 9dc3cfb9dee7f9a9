package httpserver

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"phoenixmart/internal/domain"
	catalogrepo "phoenixmart/internal/repository/catalog"
	cartsvc "phoenixmart/internal/service/cart"
	checkoutsvc "phoenixmart/internal/service/checkout"
	ordersvc "phoenixmart/internal/service/order"
)

// Deps carries the services the handlers dispatch to. The interfaces are
// defined here so tests can substitute stubs.
type Deps struct {
	CatalogSvc  CatalogService
	CartSvc     CartService
	CheckoutSvc CheckoutService
	OrderSvc    OrderService

	// CheckoutRPS/Burst bound how fast a single client can hit POST /orders.
	CheckoutRPS   float64
	CheckoutBurst int
}

type CatalogService interface {
	ListVariants(ctx context.Context) ([]domain.Variant, error)
}

type CartService interface {
	Resolve(ctx context.Context, identity domain.Identity) (*domain.Cart, error)
	AddLine(ctx context.Context, identity domain.Identity, variantID string, quantity int) (*domain.Cart, error)
	SetLineQuantity(ctx context.Context, identity domain.Identity, lineID string, quantity int) (*domain.Cart, error)
	RemoveLine(ctx context.Context, identity domain.Identity, lineID string) (*domain.Cart, error)
	Merge(ctx context.Context, sessionToken, userID string) error
}

type CheckoutService interface {
	PlaceOrder(ctx context.Context, buyerID string, in checkoutsvc.PlaceOrderInput) (*domain.Order, error)
}

type OrderService interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	TransitionStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) error
}

var _ CatalogService = (catalogrepo.Repository)(nil)
var _ CartService = (*cartsvc.Service)(nil)
var _ CheckoutService = (*checkoutsvc.Service)(nil)
var _ OrderService = (*ordersvc.Service)(nil)

// buildRouter wires routes for the storefront API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestIDMiddleware(), accessLogMiddleware(logger), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Content-Type", headerUserID, headerSessionToken, "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", listProductsHandler(deps.CatalogSvc))

	cart := router.Group("/cart", identityMiddleware())
	{
		cart.GET("", getCartHandler(deps.CartSvc))
		cart.POST("/items", addCartItemHandler(deps.CartSvc))
		cart.PATCH("/items/:lineID", updateCartItemHandler(deps.CartSvc))
		cart.DELETE("/items/:lineID", removeCartItemHandler(deps.CartSvc))
		cart.POST("/merge", mergeCartHandler(deps.CartSvc))
	}

	orders := router.Group("/orders")
	{
		orders.POST("", identityMiddleware(), rateLimitMiddleware(deps.CheckoutRPS, deps.CheckoutBurst), placeOrderHandler(deps.CheckoutSvc))
		orders.GET("/:id", getOrderHandler(deps.OrderSvc))
		orders.PATCH("/:id/status", updateOrderStatusHandler(deps.OrderSvc))
	}

	return router
}
