package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"phoenixmart/internal/domain"
	checkoutsvc "phoenixmart/internal/service/checkout"
)

type stubCartService struct {
	cart          *domain.Cart
	resolveErr    error
	addErr        error
	setErr        error
	removeErr     error
	mergeErr      error
	mergeToken    string
	mergeUserID   string
	lastVariantID string
	lastQuantity  int
	lastLineID    string
}

func (s *stubCartService) Resolve(_ context.Context, _ domain.Identity) (*domain.Cart, error) {
	return s.cart, s.resolveErr
}

func (s *stubCartService) AddLine(_ context.Context, _ domain.Identity, variantID string, quantity int) (*domain.Cart, error) {
	s.lastVariantID = variantID
	s.lastQuantity = quantity
	if s.addErr != nil {
		return nil, s.addErr
	}
	return s.cart, nil
}

func (s *stubCartService) SetLineQuantity(_ context.Context, _ domain.Identity, lineID string, quantity int) (*domain.Cart, error) {
	s.lastLineID = lineID
	s.lastQuantity = quantity
	if s.setErr != nil {
		return nil, s.setErr
	}
	return s.cart, nil
}

func (s *stubCartService) RemoveLine(_ context.Context, _ domain.Identity, lineID string) (*domain.Cart, error) {
	s.lastLineID = lineID
	if s.removeErr != nil {
		return nil, s.removeErr
	}
	return s.cart, nil
}

func (s *stubCartService) Merge(_ context.Context, sessionToken, userID string) error {
	s.mergeToken = sessionToken
	s.mergeUserID = userID
	return s.mergeErr
}

type stubCheckoutService struct {
	order *domain.Order
	err   error
	last  checkoutsvc.PlaceOrderInput
}

func (s *stubCheckoutService) PlaceOrder(_ context.Context, _ string, in checkoutsvc.PlaceOrderInput) (*domain.Order, error) {
	s.last = in
	return s.order, s.err
}

type stubOrderService struct {
	order         *domain.Order
	getErr        error
	transitionErr error
	lastOrderID   string
	lastStatus    domain.OrderStatus
}

func (s *stubOrderService) Get(_ context.Context, _ string) (*domain.Order, error) {
	return s.order, s.getErr
}

func (s *stubOrderService) TransitionStatus(_ context.Context, orderID string, newStatus domain.OrderStatus) error {
	s.lastOrderID = orderID
	s.lastStatus = newStatus
	return s.transitionErr
}

func testRouter(deps Deps) *gin.Engine {
	return buildRouter(zap.NewNop(), nil, deps)
}

func testCart() *domain.Cart {
	return &domain.Cart{
		ID: "cart-1",
		Lines: []domain.CartLine{
			{ID: "l1", Name: "Item A", UnitPriceCents: 1000, Quantity: 2},
			{ID: "l2", Name: "Item B", UnitPriceCents: 500, Quantity: 1},
		},
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

type stubCatalogService struct {
	variants []domain.Variant
	err      error
}

func (s *stubCatalogService) ListVariants(_ context.Context) ([]domain.Variant, error) {
	return s.variants, s.err
}

func TestListProducts(t *testing.T) {
	router := testRouter(Deps{CatalogSvc: &stubCatalogService{variants: []domain.Variant{
		{ID: "v1", ProductName: "Ribeye Steak", Name: "500g", SKU: "RS-500", PriceCents: 1599, Stock: 4},
		{ID: "v2", ProductName: "Salmon Fillet", Name: "250g", SKU: "SF-250", PriceCents: 1299, Stock: 0},
	}}})

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	products, ok := body["products"].([]any)
	if !ok || len(products) != 2 {
		t.Fatalf("expected two products, got %v", body["products"])
	}
	first := products[0].(map[string]any)
	if first["name"] != "Ribeye Steak (500g)" || first["price"] != "15.99" {
		t.Fatalf("unexpected product %v", first)
	}
	second := products[1].(map[string]any)
	if second["inStock"] != false {
		t.Fatalf("expected out-of-stock variant, got %v", second)
	}
}

func TestGetCartRequiresIdentity(t *testing.T) {
	router := testRouter(Deps{CartSvc: &stubCartService{cart: testCart()}})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGetCartSummary(t *testing.T) {
	router := testRouter(Deps{CartSvc: &stubCartService{cart: testCart()}})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(headerSessionToken, "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success, got %v", body)
	}
	if body["cart_total"] != "25.00" {
		t.Fatalf("expected cart_total 25.00, got %v", body["cart_total"])
	}
	if body["cart_count"] != float64(2) {
		t.Fatalf("expected cart_count 2, got %v", body["cart_count"])
	}
}

func TestAddCartItemMalformedBody(t *testing.T) {
	router := testRouter(Deps{CartSvc: &stubCartService{cart: testCart()}})

	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"quantity": "two"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerSessionToken, "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["field"] != "quantity" {
		t.Fatalf("expected quantity field error, got %v", body)
	}
}

func TestAddCartItemDefaultsQuantity(t *testing.T) {
	svc := &stubCartService{cart: testCart()}
	router := testRouter(Deps{CartSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"variant_id": "v1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerSessionToken, "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastVariantID != "v1" || svc.lastQuantity != 1 {
		t.Fatalf("expected add v1 qty 1, got %s qty %d", svc.lastVariantID, svc.lastQuantity)
	}
}

func TestRemoveCartItemNotFound(t *testing.T) {
	router := testRouter(Deps{CartSvc: &stubCartService{cart: testCart(), removeErr: domain.ErrNotFound}})

	req := httptest.NewRequest(http.MethodDelete, "/cart/items/missing", nil)
	req.Header.Set(headerSessionToken, "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false || body["message"] != "item not found" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestMergeRequiresBothHeaders(t *testing.T) {
	router := testRouter(Deps{CartSvc: &stubCartService{cart: testCart()}})

	req := httptest.NewRequest(http.MethodPost, "/cart/merge", nil)
	req.Header.Set(headerSessionToken, "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMergeHandsOffIdentities(t *testing.T) {
	svc := &stubCartService{cart: testCart()}
	router := testRouter(Deps{CartSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/cart/merge", nil)
	req.Header.Set(headerSessionToken, "sess-1")
	req.Header.Set(headerUserID, "u1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.mergeToken != "sess-1" || svc.mergeUserID != "u1" {
		t.Fatalf("unexpected merge identities %q %q", svc.mergeToken, svc.mergeUserID)
	}
}

func TestPlaceOrderRequiresUser(t *testing.T) {
	router := testRouter(Deps{CheckoutSvc: &stubCheckoutService{}})

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerSessionToken, "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	router := testRouter(Deps{CheckoutSvc: &stubCheckoutService{
		err: &domain.InsufficientStockError{VariantID: "vA", Name: "Item A", Requested: 2, Available: 1},
	}})

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"full_name":"Jo"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerUserID, "u1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["item"] != "Item A" || body["available"] != float64(1) {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestPlaceOrderSuccess(t *testing.T) {
	order := &domain.Order{
		ID:         "o1",
		Status:     domain.StatusPending,
		TotalCents: 2500,
		Lines: []domain.OrderLine{
			{ID: "ol1", Name: "Item A", Quantity: 2, PriceCents: 1000},
			{ID: "ol2", Name: "Item B", Quantity: 1, PriceCents: 500},
		},
		Address: &domain.Address{Street: "1 Main St", City: "Springfield", Zipcode: "12345", Country: "US"},
	}
	router := testRouter(Deps{CheckoutSvc: &stubCheckoutService{order: order}})

	payload := `{"full_name":"Jo Buyer","phone":"0123456789","street":"1 Main St","city":"Springfield","zipcode":"12345","country":"US"}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerUserID, "u1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["total_price"] != "25.00" {
		t.Fatalf("expected total_price 25.00, got %v", body["total_price"])
	}
	if body["delivery_address"] != "1 Main St, Springfield, 12345, US" {
		t.Fatalf("unexpected delivery_address %v", body["delivery_address"])
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	svc := &stubOrderService{}
	router := testRouter(Deps{OrderSvc: svc})

	req := httptest.NewRequest(http.MethodPatch, "/orders/o1/status", strings.NewReader(`{"status":"shipped"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastOrderID != "o1" || svc.lastStatus != domain.StatusShipped {
		t.Fatalf("unexpected transition %s -> %s", svc.lastOrderID, svc.lastStatus)
	}
}

func TestUpdateOrderStatusUnknown(t *testing.T) {
	svc := &stubOrderService{transitionErr: &domain.ValidationError{Field: "status", Reason: "unknown status refunded"}}
	router := testRouter(Deps{OrderSvc: svc})

	req := httptest.NewRequest(http.MethodPatch, "/orders/o1/status", strings.NewReader(`{"status":"refunded"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	router := testRouter(Deps{OrderSvc: &stubOrderService{getErr: domain.ErrNotFound}})

	req := httptest.NewRequest(http.MethodGet, "/orders/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	router := testRouter(Deps{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
