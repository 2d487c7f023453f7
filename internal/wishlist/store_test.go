package wishlist

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suma-expressitbd/storefront-core/internal/domain"
)

func TestToggle_AddsWhenAbsent(t *testing.T) {
	s := NewStore()

	added := s.Toggle(domain.WishlistItem{ID: "v1", ProductID: "p1"})

	assert.True(t, added)
	assert.True(t, s.Has("v1"))
	assert.Equal(t, 1, s.ItemCount())
}

func TestToggle_RemovesWhenPresent(t *testing.T) {
	s := NewStore()
	s.Add(domain.WishlistItem{ID: "v1", ProductID: "p1"})

	added := s.Toggle(domain.WishlistItem{ID: "v1", ProductID: "p1"})

	assert.False(t, added)
	assert.False(t, s.Has("v1"))
	assert.Equal(t, 0, s.ItemCount())
}

func TestAdd_RefreshesSnapshot(t *testing.T) {
	s := NewStore()
	s.Add(domain.WishlistItem{ID: "v1", Price: decimal.NewFromInt(500)})
	s.Add(domain.WishlistItem{ID: "v1", Price: decimal.NewFromInt(400)})

	items := s.Items()
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(400)))
}

func TestRemove_AbsentIsNoOp(t *testing.T) {
	s := NewStore()
	s.Remove("missing")
	assert.Equal(t, 0, s.ItemCount())
}

func TestItems_InsertionOrder(t *testing.T) {
	s := NewStore()
	s.Add(domain.WishlistItem{ID: "b"})
	s.Add(domain.WishlistItem{ID: "a"})
	s.Add(domain.WishlistItem{ID: "c"})
	s.Remove("a")

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "c", items[1].ID)
}
