// Package preorder holds the single-slot pre-order cart. The slot always
// replaces; the conflict resolver is responsible for having confirmed a
// replacement with the user before SetItem is called.
package preorder

import (
	"sync"

	"github.com/suma-expressitbd/storefront-core/internal/domain"
)

type Store struct {
	mu   sync.RWMutex
	item *domain.LineItem
}

func NewStore() *Store {
	return &Store{}
}

// SetItem fills the slot, replacing whatever occupied it.
func (s *Store) SetItem(item domain.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.item = &item
}

func (s *Store) ClearItem() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.item = nil
}

// Item returns a copy of the slot contents, or nil when empty.
func (s *Store) Item() *domain.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.item == nil {
		return nil
	}
	item := *s.item
	return &item
}

func (s *Store) Occupied() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.item != nil
}
