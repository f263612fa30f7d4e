package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vse-rental/storefront/internal/middleware"
	"github.com/vse-rental/storefront/internal/models"
	"github.com/vse-rental/storefront/internal/repository"
	"github.com/vse-rental/storefront/internal/service"
	"github.com/vse-rental/storefront/pkg/logger"
)

const testCartID = "6f1c2f55-0f7e-4d38-9d7e-2f3f7d0b8a11"

func newCartRouter() http.Handler {
	log := logger.Discard()
	carts := service.NewCartService(testProductRepo(), repository.NewMemoryCartStore(), log)
	handler := NewCartHandler(carts, log)

	r := chi.NewRouter()
	r.Use(middleware.CartSession(time.Hour))
	r.Get("/api/cart", handler.GetCart)
	r.Post("/api/cart/items", handler.AddItem)
	r.Delete("/api/cart/items/{productId}", handler.RemoveItem)
	r.Delete("/api/cart", handler.ClearCart)
	return r
}

func cartRequest(r http.Handler, method, url, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.CartHeader, testCartID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCartHandler_Flow(t *testing.T) {
	r := newCartRouter()

	w := cartRequest(r, http.MethodGet, "/api/cart", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	cart := decodeBody[models.CartResponse](t, w)
	if cart.ID != testCartID || len(cart.Items) != 0 || cart.Total != "0.00" {
		t.Errorf("unexpected empty cart: %+v", cart)
	}

	for _, body := range []string{
		`{"productId":"spk-1","lang":"en"}`,
		`{"productId":"spk-1","lang":"en"}`,
		`{"productId":"prj-1"}`,
	} {
		w = cartRequest(r, http.MethodPost, "/api/cart/items", body)
		if w.Code != http.StatusOK {
			t.Fatalf("add %s: expected status 200, got %d (%s)", body, w.Code, w.Body.String())
		}
	}

	cart = decodeBody[models.CartResponse](t, w)
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 2 || cart.Items[0].Name != "Speaker" {
		t.Errorf("unexpected first item: %+v", cart.Items[0])
	}
	if cart.TotalQuantity != 3 || cart.Total != "250.50" {
		t.Errorf("unexpected totals: qty=%d total=%s", cart.TotalQuantity, cart.Total)
	}

	w = cartRequest(r, http.MethodDelete, "/api/cart/items/spk-1", "")
	cart = decodeBody[models.CartResponse](t, w)
	if cart.Items[0].Quantity != 1 {
		t.Errorf("expected quantity 1 after remove, got %d", cart.Items[0].Quantity)
	}

	w = cartRequest(r, http.MethodDelete, "/api/cart", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	w = cartRequest(r, http.MethodGet, "/api/cart", "")
	cart = decodeBody[models.CartResponse](t, w)
	if len(cart.Items) != 0 {
		t.Errorf("expected empty cart after clear, got %d items", len(cart.Items))
	}
}

func TestCartHandler_AddItemErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"missing product id", `{"lang":"en"}`, http.StatusBadRequest},
		{"unsupported language", `{"productId":"spk-1","lang":"de"}`, http.StatusBadRequest},
		{"unknown product", `{"productId":"nope"}`, http.StatusNotFound},
	}

	r := newCartRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := cartRequest(r, http.MethodPost, "/api/cart/items", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestCartHandler_IssuesSessionCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w := httptest.NewRecorder()
	newCartRouter().ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.CartCookieName {
		t.Fatalf("expected a %s cookie, got %v", middleware.CartCookieName, cookies)
	}
	cart := decodeBody[models.CartResponse](t, w)
	if cart.ID != cookies[0].Value {
		t.Errorf("cart id %s does not match cookie %s", cart.ID, cookies[0].Value)
	}
}
