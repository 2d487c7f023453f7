package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/suma-expressitbd/storefront-core/internal/catalog"
	"github.com/suma-expressitbd/storefront-core/internal/domain"
	"github.com/suma-expressitbd/storefront-core/internal/pricing"
)

type ProductHandler struct {
	catalog catalog.Repository
	timeout time.Duration
}

func NewProductHandler(cat catalog.Repository, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: cat,
		timeout: timeout,
	}
}

// VariantPriceDTO pairs a variant with its effective price at request
// time, so the rendering layer never does price math.
type VariantPriceDTO struct {
	Variant domain.Variant        `json:"variant"`
	Price   domain.EffectivePrice `json:"price"`
}

type ProductDetailDTO struct {
	Product domain.Product        `json:"product"`
	Price   domain.EffectivePrice `json:"price"`
	Prices  []VariantPriceDTO     `json:"variant_prices,omitempty"`
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	now := time.Now()
	detail := ProductDetailDTO{
		Product: *product,
		Price:   pricing.Resolve(nil, product.SellingPrice, now),
	}
	for _, v := range product.Variants {
		variant := v
		detail.Prices = append(detail.Prices, VariantPriceDTO{
			Variant: variant,
			Price:   pricing.Resolve(&variant, product.SellingPrice, now),
		})
	}

	respondJSON(w, http.StatusOK, detail)
}
