package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suma-expressitbd/storefront-core/internal/domain"
)

func lineItem(productID, variantID string, qty, maxStock int) domain.LineItem {
	return domain.LineItem{
		ProductID:    productID,
		VariantID:    variantID,
		Quantity:     qty,
		UnitPrice:    decimal.NewFromInt(100),
		SellingPrice: decimal.NewFromInt(100),
		MaxStock:     maxStock,
	}
}

func TestAddItem_NewKey(t *testing.T) {
	s := NewStore()
	s.AddItem(lineItem("p1", "v1", 2, 5))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, s.ItemCount())
}

func TestAddItem_SameKeyReplaces(t *testing.T) {
	s := NewStore()
	s.AddItem(lineItem("p1", "v1", 2, 5))

	replacement := lineItem("p1", "v1", 4, 5)
	replacement.UnitPrice = decimal.NewFromInt(80)
	s.AddItem(replacement)

	items := s.Items()
	require.Len(t, items, 1, "same key must not duplicate")
	assert.Equal(t, 4, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(80)),
		"snapshot is replaced, not merged")
}

func TestAddItem_DistinctVariantsAreDistinctLines(t *testing.T) {
	s := NewStore()
	s.AddItem(lineItem("p1", "v1", 1, 5))
	s.AddItem(lineItem("p1", "v2", 1, 5))

	assert.Len(t, s.Items(), 2)
}

func TestUpdateQuantity_ClampsToMaxStock(t *testing.T) {
	s := NewStore()
	s.AddItem(lineItem("p1", "v1", 1, 3))

	require.NoError(t, s.UpdateQuantity("p1", "v1", 99))

	item, ok := s.Get("p1", "v1")
	require.True(t, ok)
	assert.Equal(t, 3, item.Quantity)
}

func TestUpdateQuantity_BelowOneRemoves(t *testing.T) {
	s := NewStore()
	s.AddItem(lineItem("p1", "v1", 2, 5))

	require.NoError(t, s.UpdateQuantity("p1", "v1", 0))

	assert.True(t, s.IsEmpty())
}

func TestUpdateQuantity_MissingItem(t *testing.T) {
	s := NewStore()
	err := s.UpdateQuantity("p1", "v1", 2)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestRemoveItem_Idempotent(t *testing.T) {
	s := NewStore()
	s.AddItem(lineItem("p1", "v1", 2, 5))

	s.RemoveItem("p1", "v1")
	s.RemoveItem("p1", "v1") // absent key is a no-op

	assert.True(t, s.IsEmpty())
}

func TestAddThenRemove_RestoresPriorState(t *testing.T) {
	s := NewStore()
	s.AddItem(lineItem("p1", "v1", 2, 5))
	before := s.ItemCount()

	s.AddItem(lineItem("p2", "v9", 3, 5))
	s.RemoveItem("p2", "v9")

	assert.Equal(t, before, s.ItemCount())
	assert.Len(t, s.Items(), 1)
}

func TestItems_InsertionOrderStable(t *testing.T) {
	s := NewStore()
	s.AddItem(lineItem("p3", "", 1, 5))
	s.AddItem(lineItem("p1", "v1", 1, 5))
	s.AddItem(lineItem("p2", "", 1, 5))

	// Re-adding an existing key keeps its original slot.
	s.AddItem(lineItem("p3", "", 4, 5))

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "p3", items[0].ProductID)
	assert.Equal(t, "p1", items[1].ProductID)
	assert.Equal(t, "p2", items[2].ProductID)
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.AddItem(lineItem("p1", "v1", 2, 5))
	s.AddItem(lineItem("p2", "", 1, 5))

	s.Clear()

	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.ItemCount())
	assert.Empty(t, s.Items())
}

func TestSubtotalAndDiscount(t *testing.T) {
	s := NewStore()

	discounted := lineItem("p1", "v1", 2, 5)
	discounted.SellingPrice = decimal.NewFromInt(500)
	discounted.UnitPrice = decimal.NewFromInt(400)
	discounted.Discounted = true
	s.AddItem(discounted)

	plain := lineItem("p2", "", 3, 5)
	plain.SellingPrice = decimal.NewFromInt(100)
	plain.UnitPrice = decimal.NewFromInt(100)
	s.AddItem(plain)

	// subtotal: 2×500 + 3×100, discount: 2×(500−400)
	assert.True(t, s.Subtotal().Equal(decimal.NewFromInt(1300)))
	assert.True(t, s.Discount().Equal(decimal.NewFromInt(200)))
}

func TestItemCount_TracksMutations(t *testing.T) {
	s := NewStore()
	s.AddItem(lineItem("p1", "v1", 2, 9))
	s.AddItem(lineItem("p2", "", 3, 9))
	require.NoError(t, s.UpdateQuantity("p1", "v1", 5))
	s.RemoveItem("p2", "")

	assert.Equal(t, 5, s.ItemCount())
}
