package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vse-rental/storefront/internal/config"
	"github.com/vse-rental/storefront/internal/handlers"
	"github.com/vse-rental/storefront/internal/middleware"
	"github.com/vse-rental/storefront/internal/telemetry"
)

// routes bundles the handlers mounted by newRouter
type routes struct {
	health   *handlers.HealthHandler
	products *handlers.ProductHandler
	catalog  *handlers.CatalogHandler
	cart     *handlers.CartHandler
	checkout *handlers.CheckoutHandler
	submit   *handlers.SubmitHandler
	email    *handlers.EmailHandler
}

func newRouter(cfg *config.Config, h routes, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(telemetry.Middleware(cfg.Tracing.ServiceName))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.APIKeyHeader, middleware.CartHeader},
		ExposedHeaders:   []string{"Link", middleware.CartHeader},
		AllowCredentials: !allowsAnyOrigin(cfg.Server.AllowedOrigins),
		MaxAge:           300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/health", h.health.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		// Catalog
		r.Get("/products", h.products.ListProducts)
		r.Get("/products/{productId}", h.products.GetProduct)
		r.Get("/categories", h.products.ListCategories)

		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(cfg.Auth))
			r.Post("/catalog/reload", h.catalog.Reload)
			r.Get("/catalog/stats", h.catalog.Stats)
		})

		// Cart and checkout are tied to the cart session
		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(cfg.Cart.TTL))
			r.Get("/cart", h.cart.GetCart)
			r.Post("/cart/items", h.cart.AddItem)
			r.Delete("/cart/items/{productId}", h.cart.RemoveItem)
			r.Delete("/cart", h.cart.ClearCart)
			r.Post("/checkout", h.checkout.Checkout)
		})

		// Boundary endpoints kept for the storefront UI
		r.Post("/submit", h.submit.Submit)
		r.Post("/send-email", h.email.SendEmail)
	})

	return r
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
