package handler

import (
	"net/http"

	"bdstore-be/internal/logger"
	"bdstore-be/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the HTTP surface. Authentication is passive at
// the top so every route can see who is calling; route groups opt into
// RequireAuth / RequireAdmin where it matters.
func NewRouter(
	jwtSecret string,
	products *ProductHandler,
	carts *CartHandler,
	checkouts *CheckoutHandler,
	orders *OrderHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.NewAuthMiddleware(jwtSecret))
	r.Use(middleware.RateLimitMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/products", products.ListProducts)
	r.Get("/products/{productID}", products.GetProduct)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", carts.GetCart)
		r.Delete("/", carts.ClearCart)
		r.Post("/items", carts.AddItem)
		r.Patch("/items/{productID}", carts.UpdateItem)
		r.Delete("/items/{productID}", carts.RemoveItem)
	})

	r.With(middleware.RequireAuth).Post("/checkout", checkouts.PlaceOrder)

	r.Route("/orders", func(r chi.Router) {
		r.With(middleware.RequireAdmin).Get("/", orders.ListOrders)
		r.With(middleware.RequireAuth).Get("/{orderID}", orders.GetOrder)
		r.With(middleware.RequireAdmin).Patch("/{orderID}/status", orders.UpdateStatus)
	})

	return r
}
