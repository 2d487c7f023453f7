package domain

import "time"

// Product is a read-only record from the catalog feed. Prices arrive as
// strings because the feed is tolerant of junk values; parsing happens in
// the pricing package.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Published     bool      `json:"published"`
	HasVariants   bool      `json:"has_variants"`
	Stock         int       `json:"stock"`
	SellingPrice  string    `json:"selling_price"`
	Currency      string    `json:"currency"`
	VariantGroups []string  `json:"variant_groups,omitempty"`
	Variants      []Variant `json:"variants,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Variant is a purchasable configuration of a product with its own stock,
// price and optional offer window.
type Variant struct {
	ID           string     `json:"id"`
	Values       []string   `json:"values"`
	Stock        int        `json:"stock"`
	SellingPrice string     `json:"selling_price"`
	OfferPrice   string     `json:"offer_price"`
	OfferStart   *time.Time `json:"offer_start,omitempty"`
	OfferEnd     *time.Time `json:"offer_end,omitempty"`
	Preorder     bool       `json:"preorder"`
	ImageURL     string     `json:"image_url,omitempty"`
}

// FindVariant returns the variant with the given id, or nil.
func (p *Product) FindVariant(variantID string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}
