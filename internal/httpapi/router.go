package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/suma-expressitbd/storefront-core/internal/catalog"
	"github.com/suma-expressitbd/storefront-core/internal/session"
)

// NewRouter wires the storefront API.
func NewRouter(sessions *session.Manager, cat catalog.Repository, requestTimeout time.Duration) chi.Router {
	cartHandler := NewCartHandler(sessions, cat, requestTimeout)
	productHandler := NewProductHandler(cat, requestTimeout)
	wishlistHandler := NewWishlistHandler(sessions, cat, requestTimeout)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)
	r.Use(otelhttp.NewMiddleware("storefront"))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Get("/{product_id}", productHandler.GetProduct)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Post("/items/{product_id}/increment", cartHandler.IncrementItem)
			r.Post("/items/{product_id}/decrement", cartHandler.DecrementItem)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.ClearCart)
			r.Get("/preorder", cartHandler.GetPreorder)
			r.Delete("/preorder", cartHandler.ClearPreorder)
			r.Post("/conflict", cartHandler.ResolveConflict)
		})
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.GetWishlist)
			r.Post("/toggle", wishlistHandler.Toggle)
		})
	})

	return r
}
