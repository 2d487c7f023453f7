package pricing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suma-expressitbd/storefront-core/internal/domain"
)

// MinUnitPrice is the floor used when a stored price fails to parse.
// A broken price must never allow a zero-cost add.
const MinUnitPrice = 1

// Resolve computes the effective price for a variant at a point in time.
// It is pure: no side effects, safe to call on every render.
//
// The offer is active only when both prices parse as positive numbers,
// the offer undercuts the selling price, and now falls inside the offer
// window. A missing start is treated as the epoch; a missing end means
// the offer never qualifies.
func Resolve(v *domain.Variant, fallbackSellingPrice string, now time.Time) domain.EffectivePrice {
	if v == nil {
		price := floorPrice(parsePrice(fallbackSellingPrice))
		return domain.EffectivePrice{
			SellingPrice: price,
			OfferPrice:   price,
			DisplayPrice: price,
		}
	}

	selling := parsePrice(v.SellingPrice)
	offer := parsePrice(v.OfferPrice)

	active := selling.IsPositive() &&
		offer.IsPositive() &&
		offer.LessThan(selling) &&
		withinWindow(v.OfferStart, v.OfferEnd, now)

	selling = floorPrice(selling)

	price := domain.EffectivePrice{
		SellingPrice:  selling,
		OfferPrice:    offer,
		DisplayPrice:  selling,
		IsOfferActive: active,
	}
	if active {
		price.DisplayPrice = offer
		price.DiscountPercent = int(selling.Sub(offer).
			Div(selling).
			Mul(decimal.NewFromInt(100)).
			Round(0).
			IntPart())
	}
	return price
}

func withinWindow(start, end *time.Time, now time.Time) bool {
	if end == nil {
		return false
	}
	from := time.Unix(0, 0)
	if start != nil {
		from = *start
	}
	return !now.Before(from) && !now.After(*end)
}

// parsePrice never fails; junk values collapse to zero.
func parsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func floorPrice(d decimal.Decimal) decimal.Decimal {
	if d.IsPositive() {
		return d
	}
	return decimal.NewFromInt(MinUnitPrice)
}
