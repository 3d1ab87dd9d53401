package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/repository"
	"storefront/internal/service"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	store := repository.NewMemoryStore()
	users := repository.NewMemoryUsers(store)
	carts := repository.NewMemoryCarts(store)
	orders := repository.NewMemoryOrders(store)
	tx := repository.NewMemoryTx(store)

	usersSvc := service.NewUserService(users)
	productsSvc := service.NewProductService(store)
	cartsSvc := service.NewCartService(carts)
	checkoutSvc := service.NewCheckoutService(carts, orders, tx)
	historySvc := service.NewOrderHistoryService(orders)
	return NewServer(usersSvc, productsSvc, cartsSvc, checkoutSvc, historySvc)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}

// registerUser creates an account and returns its id.
func registerUser(t *testing.T, s *Server, username, role string) int64 {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/register", map[string]any{
		"username": username, "fullname": username, "email": username + "@x.test",
		"phone": "555", "address": "here", "password": "pw", "role": role,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: %v %v", username, w.Code, w.Body.String())
	}
	w = doJSON(t, s, http.MethodPost, "/api/login", map[string]any{
		"username": username, "password": "pw", "role": role,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: %v", username, w.Code)
	}
	return int64(decode(t, w)["userId"].(float64))
}

func addProduct(t *testing.T, s *Server, vendorID int64, name string, price float64) int64 {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/products/add", map[string]any{
		"vendor_id": vendorID, "name": name, "price": price, "stock": 10, "category": "misc",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add product: %v %v", w.Code, w.Body.String())
	}
	product := decode(t, w)["product"].(map[string]any)
	return int64(product["product_id"].(float64))
}

func TestAuthFlow(t *testing.T) {
	s := setupServer(t)
	registerUser(t, s, "alice", "customer")

	// duplicate registration
	w := doJSON(t, s, http.MethodPost, "/api/register", map[string]any{
		"username": "alice", "fullname": "x", "email": "x@x.test",
		"phone": "1", "address": "a", "password": "pw", "role": "customer",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", w.Code)
	}

	// wrong password
	w = doJSON(t, s, http.MethodPost, "/api/login", map[string]any{
		"username": "alice", "password": "nope", "role": "customer",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", w.Code)
	}

	// missing fields
	w = doJSON(t, s, http.MethodPost, "/api/register", map[string]any{"username": "bob"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", w.Code)
	}
}

func TestProductEndpoints(t *testing.T) {
	s := setupServer(t)
	vendorID := registerUser(t, s, "vendor", "vendor")
	productID := addProduct(t, s, vendorID, "Mug", 10)

	w := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/product/detail/%d", productID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("detail: %v", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/products/list/misc/5-15", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %v", w.Code)
	}
	if products := decode(t, w)["products"].([]any); len(products) != 1 {
		t.Fatalf("expected 1 product, got %v", len(products))
	}

	// "0" disables both filters
	w = doJSON(t, s, http.MethodGet, "/api/products/list/0/0", nil)
	if products := decode(t, w)["products"].([]any); len(products) != 1 {
		t.Fatalf("expected 1 product, got %v", len(products))
	}

	// out-of-range filter
	w = doJSON(t, s, http.MethodGet, "/api/products/list/0/100-200", nil)
	if products := decode(t, w)["products"].([]any); len(products) != 0 {
		t.Fatalf("expected no products, got %v", len(products))
	}

	w = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/products/delete/%d", productID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: %v", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/product/detail/%d", productID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %v", w.Code)
	}
}

func TestCartAndCheckoutFlow(t *testing.T) {
	s := setupServer(t)
	vendorID := registerUser(t, s, "vendor", "vendor")
	buyerID := registerUser(t, s, "buyer", "customer")
	p1 := addProduct(t, s, vendorID, "Mug", 10)
	p2 := addProduct(t, s, vendorID, "Plate", 5.50)

	// add twice: quantity accumulates
	doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/cart/add/%d/%d/1", buyerID, p1), nil)
	doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/cart/add/%d/%d/1", buyerID, p1), nil)
	doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/cart/add/%d/%d/3", buyerID, p2), nil)

	w := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/cart/user/%d", buyerID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cart list: %v", w.Code)
	}
	if data := decode(t, w)["data"].([]any); len(data) != 2 {
		t.Fatalf("expected 2 cart lines, got %v", len(data))
	}

	w = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/cart/checkout/%d", buyerID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("checkout: %v %v", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["status"] != "success" || body["order_id"] == nil {
		t.Fatalf("unexpected checkout body: %v", body)
	}

	// cart is now empty: the list endpoint reports 404 like the original API
	w = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/cart/user/%d", buyerID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected empty cart 404, got %v", w.Code)
	}

	// checkout on the emptied cart
	w = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/cart/checkout/%d", buyerID), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on empty cart, got %v", w.Code)
	}
	if msg := decode(t, w)["message"]; msg != "Cart is empty" {
		t.Fatalf("unexpected message: %v", msg)
	}

	// both history views see the order
	w = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/order/history/user/%d", buyerID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("user history: %v", w.Code)
	}
	views := decode(t, w)["data"].([]any)
	if len(views) != 1 {
		t.Fatalf("expected 1 order, got %v", len(views))
	}
	order := views[0].(map[string]any)
	if items := order["items"].([]any); len(items) != 2 {
		t.Fatalf("expected 2 items, got %v", len(items))
	}
	wantTotal := 2*10 + 3*5.50 + service.ShippingFee
	if got := order["total_price"].(float64); got < wantTotal-1e-9 || got > wantTotal+1e-9 {
		t.Fatalf("expected total %v, got %v", wantTotal, got)
	}

	w = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/order/history/vendor/%d", vendorID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("vendor history: %v", w.Code)
	}
	if views := decode(t, w)["data"].([]any); len(views) != 1 {
		t.Fatalf("expected 1 vendor order, got %v", len(views))
	}
}

func TestHTTP_BadRequests(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/cart/checkout/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/cart/add/1/2/zero", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/products/add", map[string]any{"name": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", w.Code)
	}
}

func TestHTTP_ProfileEndpoints(t *testing.T) {
	s := setupServer(t)
	registerUser(t, s, "alice", "customer")

	w := doJSON(t, s, http.MethodGet, "/api/profile/alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("profile: %v", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/profile/update", map[string]any{
		"username": "alice", "fullname": "Alice S", "email": "alice@new.test",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("profile update: %v", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/profile/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", w.Code)
	}
}
