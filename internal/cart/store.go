// Package cart holds the regular cart: a keyed, insertion-ordered
// collection of line items. The store is deliberately dumb — mutual
// exclusivity with the pre-order slot is enforced by the conflict
// resolver, and presentation side effects belong to the session engine.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/suma-expressitbd/storefront-core/internal/domain"
	"github.com/suma-expressitbd/storefront-core/internal/stock"
)

type Store struct {
	mu    sync.RWMutex
	items map[domain.Key]*domain.LineItem
	order []domain.Key
}

func NewStore() *Store {
	return &Store{
		items: make(map[domain.Key]*domain.LineItem),
	}
}

// AddItem upserts by (productID, variantID). An existing key is replaced
// outright — quantity and snapshot both — matching "select the variant
// again with a new quantity" semantics.
func (s *Store) AddItem(item domain.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := item.Key()
	if _, exists := s.items[key]; !exists {
		s.order = append(s.order, key)
	}
	s.items[key] = &item
}

// UpdateQuantity sets the quantity for an existing item, clamped against
// the stock recorded at add time. A quantity below one removes the item.
func (s *Store) UpdateQuantity(productID, variantID string, quantity int) error {
	if quantity < 1 {
		s.RemoveItem(productID, variantID)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.Key{ProductID: productID, VariantID: variantID}
	item, ok := s.items[key]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.Quantity = stock.Clamp(quantity, item.MaxStock, item.Preorder)
	return nil
}

// RemoveItem deletes the key. Removing an absent key is a no-op.
func (s *Store) RemoveItem(productID, variantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.Key{ProductID: productID, VariantID: variantID}
	if _, ok := s.items[key]; !ok {
		return
	}
	delete(s.items, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[domain.Key]*domain.LineItem)
	s.order = nil
}

func (s *Store) Get(productID, variantID string) (domain.LineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[domain.Key{ProductID: productID, VariantID: variantID}]
	if !ok {
		return domain.LineItem{}, false
	}
	return *item, true
}

// Items returns line items in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.LineItem, 0, len(s.order))
	for _, key := range s.order {
		result = append(result, *s.items[key])
	}
	return result
}

func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) == 0
}

// ItemCount is the sum of quantities across all line items.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Subtotal is the pre-discount total: selling price times quantity.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.SellingPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Discount is the saving across discounted items: (selling − unit) × qty.
func (s *Store) Discount() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, item := range s.items {
		if !item.Discounted {
			continue
		}
		saving := item.SellingPrice.Sub(item.UnitPrice)
		total = total.Add(saving.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
