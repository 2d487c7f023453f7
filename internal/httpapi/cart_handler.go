package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/suma-expressitbd/storefront-core/internal/catalog"
	"github.com/suma-expressitbd/storefront-core/internal/conflict"
	"github.com/suma-expressitbd/storefront-core/internal/session"
)

type CartHandler struct {
	sessions *session.Manager
	catalog  catalog.Repository
	timeout  time.Duration
}

func NewCartHandler(sessions *session.Manager, cat catalog.Repository, timeout time.Duration) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		catalog:  cat,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type ResolveConflictRequestDTO struct {
	Decision string `json:"decision"`
}

type CartResponseDTO struct {
	Outcome session.Outcome  `json:"outcome"`
	Cart    session.CartView `json:"cart"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	engine := h.sessions.Get(ctx, getSessionID(r.Context()))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cart":        engine.View(),
		"first_visit": engine.FirstVisit(),
	})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
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
	outcome, err := engine.AddToCart(ctx, product, req.VariantID, req.Quantity)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	status := http.StatusCreated
	if outcome.Blocked() {
		// The add is parked on a user decision, not failed.
		status = http.StatusConflict
	}
	respondJSON(w, status, CartResponseDTO{Outcome: outcome, Cart: engine.View()})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	variantID := r.URL.Query().Get("variant_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	engine := h.sessions.Get(ctx, getSessionID(r.Context()))
	outcome, err := engine.UpdateQuantity(ctx, productID, variantID, req.Quantity)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Outcome: outcome, Cart: engine.View()})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	variantID := r.URL.Query().Get("variant_id")

	engine := h.sessions.Get(ctx, getSessionID(r.Context()))
	outcome, err := engine.RemoveFromCart(ctx, productID, variantID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Outcome: outcome, Cart: engine.View()})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	engine := h.sessions.Get(ctx, getSessionID(r.Context()))
	outcome, err := engine.ClearCart(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Outcome: outcome, Cart: engine.View()})
}

func (h *CartHandler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	variantID := r.URL.Query().Get("variant_id")

	engine := h.sessions.Get(ctx, getSessionID(r.Context()))
	outcome, err := engine.IncrementQuantity(ctx, productID, variantID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Outcome: outcome, Cart: engine.View()})
}

func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	variantID := r.URL.Query().Get("variant_id")

	engine := h.sessions.Get(ctx, getSessionID(r.Context()))
	outcome, err := engine.DecrementQuantity(ctx, productID, variantID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Outcome: outcome, Cart: engine.View()})
}

func (h *CartHandler) GetPreorder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	engine := h.sessions.Get(ctx, getSessionID(r.Context()))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"preorder": engine.View().Preorder,
	})
}

func (h *CartHandler) ClearPreorder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	engine := h.sessions.Get(ctx, getSessionID(r.Context()))
	outcome, err := engine.ClearPreorder(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Outcome: outcome, Cart: engine.View()})
}

func (h *CartHandler) ResolveConflict(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ResolveConflictRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	engine := h.sessions.Get(ctx, getSessionID(r.Context()))
	outcome, err := engine.ResolveConflict(ctx, conflict.Decision(req.Decision))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Outcome: outcome, Cart: engine.View()})
}
