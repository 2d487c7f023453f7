// Package stock clamps requested quantities against available stock.
package stock

// HardCeiling bounds quantities even when the stock limit is ignored
// (pre-order items), so runaway input can never land in a cart.
const HardCeiling = 10

// Clamp bounds a requested quantity. With ignoreCap the only bound is
// the hard ceiling; otherwise the result stays within [1, maxStock].
func Clamp(requested, maxStock int, ignoreCap bool) int {
	if requested < 1 {
		requested = 1
	}
	limit := maxStock
	if ignoreCap {
		limit = HardCeiling
	}
	if requested > limit {
		return limit
	}
	return requested
}

// CanIncrement reports whether one more unit fits under the effective limit.
func CanIncrement(current, maxStock int, ignoreCap bool) bool {
	limit := maxStock
	if ignoreCap {
		limit = HardCeiling
	}
	return current < limit
}

// CanDecrement reports whether the quantity can drop without removing
// the item.
func CanDecrement(current int) bool {
	return current > 1
}
