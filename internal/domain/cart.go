package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EffectivePrice is derived per render, never stored.
type EffectivePrice struct {
	SellingPrice    decimal.Decimal `json:"selling_price"`
	OfferPrice      decimal.Decimal `json:"offer_price"`
	DisplayPrice    decimal.Decimal `json:"display_price"`
	DiscountPercent int             `json:"discount_percent"`
	IsOfferActive   bool            `json:"is_offer_active"`
}

// Key identifies a line item. VariantID is empty for products without
// variants.
type Key struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
}

// LineItem is a cart entry. Price fields are frozen at add time; later
// catalog changes do not touch items already in the cart.
type LineItem struct {
	ProductID    string          `json:"product_id"`
	VariantID    string          `json:"variant_id,omitempty"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Discounted   bool            `json:"discounted"`
	Currency     string          `json:"currency"`
	MaxStock     int             `json:"max_stock"`
	Values       []string        `json:"values,omitempty"`
	Groups       []string        `json:"groups,omitempty"`
	Preorder     bool            `json:"preorder"`
	ImageURL     string          `json:"image_url,omitempty"`
	AddedAt      time.Time       `json:"added_at"`
}

func (i LineItem) Key() Key {
	return Key{ProductID: i.ProductID, VariantID: i.VariantID}
}

// WishlistItem is a saved product or variant with a price snapshot.
// Membership is boolean per key, there is no quantity.
type WishlistItem struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Discounted bool            `json:"discounted"`
	Currency   string          `json:"currency"`
	Values     []string        `json:"values,omitempty"`
	ImageURL   string          `json:"image_url,omitempty"`
	AddedAt    time.Time       `json:"added_at"`
}

// CartState is the persisted shape of a session: regular cart items,
// the pre-order slot and the wishlist.
type CartState struct {
	Items    []LineItem     `json:"items"`
	Preorder *LineItem      `json:"preorder,omitempty"`
	Wishlist []WishlistItem `json:"wishlist"`
}
