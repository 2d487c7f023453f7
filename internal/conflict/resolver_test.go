package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suma-expressitbd/storefront-core/internal/cart"
	"github.com/suma-expressitbd/storefront-core/internal/domain"
	"github.com/suma-expressitbd/storefront-core/internal/preorder"
)

func newFixture() (*cart.Store, *preorder.Store, *Resolver) {
	c := cart.NewStore()
	p := preorder.NewStore()
	return c, p, NewResolver(c, p)
}

func item(productID, variantID string) domain.LineItem {
	return domain.LineItem{ProductID: productID, VariantID: variantID, Quantity: 1, MaxStock: 5}
}

func TestRegularAdd_AllowedWhenSlotEmpty(t *testing.T) {
	_, _, r := newFixture()

	gate := r.RequestRegularAdd(item("p1", "v1"))

	assert.True(t, gate.Allowed)
	assert.Equal(t, StateIdle, r.State())
}

func TestRegularAdd_BlockedBySlot_OffersTwoChoices(t *testing.T) {
	c, p, r := newFixture()
	p.SetItem(item("pre", "x"))

	gate := r.RequestRegularAdd(item("p1", "v1"))

	assert.False(t, gate.Allowed)
	assert.Equal(t, StatePreorderConflict, gate.State)
	assert.Equal(t, []Decision{DecisionClearAndProceed, DecisionGoToCheckout}, gate.Choices)
	assert.True(t, c.IsEmpty(), "blocked add must not mutate the cart")
	assert.True(t, p.Occupied(), "blocked add must not touch the slot")
}

func TestPreorderConflict_ClearAndProceed(t *testing.T) {
	c, p, r := newFixture()
	p.SetItem(item("pre", "x"))
	r.RequestRegularAdd(item("p1", "v1"))

	res, err := r.Resolve(DecisionClearAndProceed)

	require.NoError(t, err)
	assert.True(t, res.Mutated)
	assert.False(t, res.NavigateCheckout)
	assert.False(t, p.Occupied())
	_, ok := c.Get("p1", "v1")
	assert.True(t, ok)
	assert.Equal(t, StateIdle, r.State())
}

func TestPreorderConflict_GoToCheckout(t *testing.T) {
	c, p, r := newFixture()
	p.SetItem(item("pre", "x"))
	r.RequestRegularAdd(item("p1", "v1"))

	res, err := r.Resolve(DecisionGoToCheckout)

	require.NoError(t, err)
	assert.False(t, res.Mutated)
	assert.True(t, res.NavigateCheckout)
	assert.True(t, p.Occupied(), "checkout-first leaves the slot alone")
	assert.True(t, c.IsEmpty())
}

func TestPreorderAdd_BlockedByCart_SingleChoice(t *testing.T) {
	c, p, r := newFixture()
	c.AddItem(item("p1", "v1"))

	gate := r.RequestPreorderAdd(item("pre", "x"))

	assert.False(t, gate.Allowed)
	assert.Equal(t, StateCartConflict, gate.State)
	assert.Equal(t, []Decision{DecisionClearAndProceed}, gate.Choices,
		"pre-order side offers no checkout-first alternative")
	assert.False(t, p.Occupied(), "slot untouched until resolved")
}

func TestCartConflict_ClearAndProceed(t *testing.T) {
	c, p, r := newFixture()
	c.AddItem(item("p1", "v1"))
	r.RequestPreorderAdd(item("pre", "x"))

	res, err := r.Resolve(DecisionClearAndProceed)

	require.NoError(t, err)
	assert.True(t, res.Mutated)
	assert.True(t, res.NavigateCheckout)
	assert.True(t, c.IsEmpty())
	require.NotNil(t, p.Item())
	assert.Equal(t, "pre", p.Item().ProductID)
}

func TestCartConflict_CheckoutNotOffered(t *testing.T) {
	c, _, r := newFixture()
	c.AddItem(item("p1", "v1"))
	r.RequestPreorderAdd(item("pre", "x"))

	_, err := r.Resolve(DecisionGoToCheckout)

	assert.ErrorIs(t, err, domain.ErrInvalidDecision)
}

func TestPreorderReplace_ClearAndAdd(t *testing.T) {
	_, p, r := newFixture()
	p.SetItem(item("x", "vx"))

	gate := r.RequestPreorderAdd(item("y", "vy"))
	require.False(t, gate.Allowed)
	require.Equal(t, StatePreorderReplace, gate.State)

	res, err := r.Resolve(DecisionClearAndProceed)

	require.NoError(t, err)
	assert.True(t, res.Mutated)
	require.NotNil(t, p.Item())
	assert.Equal(t, "y", p.Item().ProductID, "slot holds exactly the new item")
}

func TestPreorderReplace_SameItemPassesThrough(t *testing.T) {
	_, p, r := newFixture()
	p.SetItem(item("x", "vx"))

	gate := r.RequestPreorderAdd(item("x", "vx"))

	assert.True(t, gate.Allowed, "re-adding the held item is not a conflict")
}

func TestCancel_DismissesWithoutMutation(t *testing.T) {
	c, p, r := newFixture()
	p.SetItem(item("pre", "x"))
	r.RequestRegularAdd(item("p1", "v1"))

	res, err := r.Resolve(DecisionCancel)

	require.NoError(t, err)
	assert.False(t, res.Mutated)
	assert.False(t, res.NavigateCheckout)
	assert.True(t, c.IsEmpty())
	assert.True(t, p.Occupied())
	assert.Equal(t, StateIdle, r.State())
}

func TestResolve_Idle(t *testing.T) {
	_, _, r := newFixture()

	_, err := r.Resolve(DecisionClearAndProceed)

	assert.ErrorIs(t, err, domain.ErrNoPendingConflict)
}
