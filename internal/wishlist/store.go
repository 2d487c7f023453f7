// Package wishlist holds saved items keyed by product id, or variant id
// when the product has variants. Membership is boolean: no quantity, no
// stock coupling.
package wishlist

import (
	"sync"

	"github.com/suma-expressitbd/storefront-core/internal/domain"
)

type Store struct {
	mu    sync.RWMutex
	items map[string]*domain.WishlistItem
	order []string
}

func NewStore() *Store {
	return &Store{
		items: make(map[string]*domain.WishlistItem),
	}
}

// Add upserts the item, refreshing its price snapshot when already present.
func (s *Store) Add(item domain.WishlistItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; !exists {
		s.order = append(s.order, item.ID)
	}
	s.items[item.ID] = &item
}

// Remove deletes by id. Removing an absent id is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return
	}
	delete(s.items, id)
	for i, k := range s.order {
		if k == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Toggle removes the item when present, otherwise adds it. Returns true
// when the item ended up in the wishlist.
func (s *Store) Toggle(item domain.WishlistItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; ok {
		delete(s.items, item.ID)
		for i, k := range s.order {
			if k == item.ID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false
	}
	s.order = append(s.order, item.ID)
	s.items[item.ID] = &item
	return true
}

func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

// Items returns wishlist entries in insertion order.
func (s *Store) Items() []domain.WishlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.WishlistItem, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, *s.items[id])
	}
	return result
}

func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
