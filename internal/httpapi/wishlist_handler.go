package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/suma-expressitbd/storefront-core/internal/catalog"
	"github.com/suma-expressitbd/storefront-core/internal/session"
)

type WishlistHandler struct {
	sessions *session.Manager
	catalog  catalog.Repository
	timeout  time.Duration
}

func NewWishlistHandler(sessions *session.Manager, cat catalog.Repository, timeout time.Duration) *WishlistHandler {
	return &WishlistHandler{
		sessions: sessions,
		catalog:  cat,
		timeout:  timeout,
	}
}

type ToggleWishlistRequestDTO struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	engine := h.sessions.Get(ctx, getSessionID(r.Context()))

	respondJSON(w, http.StatusOK, engine.View().Wishlist)
}

func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ToggleWishlistRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if !product.Published {
		respondError(w, http.StatusNotFound, "product_not_found", "product not available")
		return
	}

	engine := h.sessions.Get(ctx, getSessionID(r.Context()))
	outcome, err := engine.ToggleWishlist(ctx, product, req.VariantID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"outcome":  outcome,
		"wishlist": engine.View().Wishlist,
	})
}
