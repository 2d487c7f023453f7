// Package session orchestrates the per-session commerce engine: the
// three stores, the conflict gate, pricing and stock checks, plus the
// side effects (persistence write-through, notifications, events) that
// the stores themselves deliberately do not perform.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/suma-expressitbd/storefront-core/internal/cart"
	"github.com/suma-expressitbd/storefront-core/internal/conflict"
	"github.com/suma-expressitbd/storefront-core/internal/domain"
	"github.com/suma-expressitbd/storefront-core/internal/events"
	"github.com/suma-expressitbd/storefront-core/internal/persist"
	"github.com/suma-expressitbd/storefront-core/internal/preorder"
	"github.com/suma-expressitbd/storefront-core/internal/pricing"
	"github.com/suma-expressitbd/storefront-core/internal/stock"
	"github.com/suma-expressitbd/storefront-core/internal/wishlist"
)

const persistTimeout = time.Second

// Outcome tells the caller what happened and which presentation side
// effects to trigger. The engine never opens panels or navigates; it
// only reports.
type Outcome struct {
	Conflict         conflict.State      `json:"conflict,omitempty"`
	Choices          []conflict.Decision `json:"choices,omitempty"`
	ShowCart         bool                `json:"show_cart,omitempty"`
	NavigateCheckout bool                `json:"navigate_checkout,omitempty"`
	InWishlist       bool                `json:"in_wishlist,omitempty"`
	Message          string              `json:"message,omitempty"`
}

// Blocked reports whether the operation is parked on a user decision.
func (o Outcome) Blocked() bool {
	return o.Conflict != "" && o.Conflict != conflict.StateIdle
}

// CartView is a consistent read of the whole session for rendering.
type CartView struct {
	Items     []domain.LineItem     `json:"items"`
	ItemCount int                   `json:"item_count"`
	Subtotal  decimal.Decimal       `json:"subtotal"`
	Discount  decimal.Decimal       `json:"discount"`
	Preorder  *domain.LineItem      `json:"preorder,omitempty"`
	Wishlist  []domain.WishlistItem `json:"wishlist"`
	Conflict  conflict.State        `json:"conflict"`
}

type Engine struct {
	sessionID string

	// mu serializes every operation so the conflict gate always sees
	// current store state, never a stale snapshot.
	mu       sync.Mutex
	cart     *cart.Store
	preorder *preorder.Store
	wishlist *wishlist.Store
	resolver *conflict.Resolver

	persist persist.Store
	notify  Notifier
	emitter *events.Emitter

	// inflight replaces the old debounce-based duplicate-click guard
	// with an exact per-key flag. It has its own lock: the flag must be
	// visible to callers queued behind mu, so it is taken first.
	inflightMu sync.Mutex
	inflight   map[domain.Key]struct{}

	firstVisit bool
}

func NewEngine(sessionID string, ps persist.Store, notify Notifier, emitter *events.Emitter) *Engine {
	c := cart.NewStore()
	p := preorder.NewStore()
	return &Engine{
		sessionID: sessionID,
		cart:      c,
		preorder:  p,
		wishlist:  wishlist.NewStore(),
		resolver:  conflict.NewResolver(c, p),
		persist:   ps,
		notify:    notify,
		emitter:   emitter,
		inflight:  make(map[domain.Key]struct{}),
	}
}

func (e *Engine) SessionID() string {
	return e.sessionID
}

// Hydrate loads persisted session state, best-effort. A missing or
// unreadable snapshot just means an empty session.
func (e *Engine) Hydrate(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.persist.LoadState(ctx, e.sessionID)
	if err == nil {
		for _, item := range state.Items {
			e.cart.AddItem(item)
		}
		// A snapshot holding both regular items and a pre-order slot
		// would violate mutual exclusivity; the regular cart wins and
		// the slot is dropped.
		if state.Preorder != nil && len(state.Items) == 0 {
			e.preorder.SetItem(*state.Preorder)
		}
		for _, item := range state.Wishlist {
			e.wishlist.Add(item)
		}
	} else if !errors.Is(err, persist.ErrNotFound) {
		log.Printf("session %s: hydrate failed: %v", e.sessionID, err)
	}

	seen, err := e.persist.SeenRecently(ctx, e.sessionID)
	if err != nil {
		log.Printf("session %s: first-visit check failed: %v", e.sessionID, err)
		return
	}
	if !seen {
		e.firstVisit = true
		if err := e.persist.MarkVisited(ctx, e.sessionID); err != nil {
			log.Printf("session %s: mark visited failed: %v", e.sessionID, err)
		}
	}
}

// FirstVisit reports whether this session had not been seen within the
// visit TTL when it was hydrated.
func (e *Engine) FirstVisit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.firstVisit
}

// AddToCart validates, prices and gates an add intent. Pre-order
// variants route to the single-slot store; everything else goes to the
// regular cart. A gated add mutates nothing until the user resolves it.
func (e *Engine) AddToCart(ctx context.Context, p *domain.Product, variantID string, quantity int) (Outcome, error) {
	key := domain.Key{ProductID: p.ID, VariantID: variantID}
	if !e.beginAdd(key) {
		return Outcome{}, domain.ErrAddInFlight
	}
	defer e.endAdd(key)

	e.mu.Lock()
	defer e.mu.Unlock()

	item, err := e.buildLineItem(p, variantID, quantity)
	if err != nil {
		return Outcome{}, err
	}

	if item.Preorder {
		return e.addPreorderLocked(ctx, item), nil
	}
	return e.addRegularLocked(ctx, item), nil
}

// beginAdd flags the key before the engine lock is taken, so a
// duplicate click queued behind a slow add is rejected instead of
// silently re-applied once the first add finishes.
func (e *Engine) beginAdd(key domain.Key) bool {
	e.inflightMu.Lock()
	defer e.inflightMu.Unlock()
	if _, busy := e.inflight[key]; busy {
		return false
	}
	e.inflight[key] = struct{}{}
	return true
}

func (e *Engine) endAdd(key domain.Key) {
	e.inflightMu.Lock()
	defer e.inflightMu.Unlock()
	delete(e.inflight, key)
}

func (e *Engine) addRegularLocked(ctx context.Context, item domain.LineItem) Outcome {
	gate := e.resolver.RequestRegularAdd(item)
	if !gate.Allowed {
		return Outcome{Conflict: gate.State, Choices: gate.Choices}
	}

	e.cart.AddItem(item)
	e.persistLocked()
	e.notify.Success("Added to cart")
	e.emit(events.TypeCartItemAdded, item.ProductID, item.VariantID, item.Quantity)
	return Outcome{ShowCart: true, Message: "Added to cart"}
}

func (e *Engine) addPreorderLocked(ctx context.Context, item domain.LineItem) Outcome {
	gate := e.resolver.RequestPreorderAdd(item)
	if !gate.Allowed {
		return Outcome{Conflict: gate.State, Choices: gate.Choices}
	}

	e.preorder.SetItem(item)
	e.persistLocked()
	e.notify.Success("Pre-order added")
	e.emit(events.TypePreorderSet, item.ProductID, item.VariantID, item.Quantity)
	return Outcome{NavigateCheckout: true, Message: "Pre-order added"}
}

// ResolveConflict applies the user's decision to the pending conflict.
func (e *Engine) ResolveConflict(ctx context.Context, decision conflict.Decision) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.resolver.Resolve(decision)
	if err != nil {
		return Outcome{}, err
	}

	if decision == conflict.DecisionCancel {
		return Outcome{}, nil
	}

	out := Outcome{NavigateCheckout: res.NavigateCheckout}
	if res.Mutated {
		e.persistLocked()
		e.notify.Success("Cart updated")
		e.emit(events.TypeConflictResolved, "", "", 0)
		out.Message = "Cart updated"
		out.ShowCart = !res.NavigateCheckout
	}
	return out, nil
}

// ConflictState exposes the resolver state for rendering the decision
// dialog.
func (e *Engine) ConflictState() conflict.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolver.State()
}

// UpdateQuantity sets an item's quantity; below one it removes the item.
func (e *Engine) UpdateQuantity(ctx context.Context, productID, variantID string, quantity int) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, ok := e.cart.Get(productID, variantID)
	if !ok {
		e.notify.Error("Item not found in cart")
		return Outcome{}, domain.ErrItemNotFound
	}

	if quantity < 1 {
		return e.removeLocked(ctx, item), nil
	}

	if err := e.cart.UpdateQuantity(productID, variantID, quantity); err != nil {
		return Outcome{}, err
	}
	e.persistLocked()
	e.notify.Success("Cart updated")
	updated, _ := e.cart.Get(productID, variantID)
	e.emit(events.TypeCartItemUpdated, productID, variantID, updated.Quantity)
	return Outcome{Message: "Cart updated"}, nil
}

// IncrementQuantity adds one unit if the stock cap allows it. At the
// cap the quantity is left untouched and the add is reported out of
// stock.
func (e *Engine) IncrementQuantity(ctx context.Context, productID, variantID string) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, ok := e.cart.Get(productID, variantID)
	if !ok {
		e.notify.Error("Item not found in cart")
		return Outcome{}, domain.ErrItemNotFound
	}
	if !stock.CanIncrement(item.Quantity, item.MaxStock, item.Preorder) {
		e.notify.Error("No more stock available")
		return Outcome{}, domain.ErrOutOfStock
	}

	if err := e.cart.UpdateQuantity(productID, variantID, item.Quantity+1); err != nil {
		return Outcome{}, err
	}
	e.persistLocked()
	e.notify.Success("Cart updated")
	e.emit(events.TypeCartItemUpdated, productID, variantID, item.Quantity+1)
	return Outcome{Message: "Cart updated"}, nil
}

// DecrementQuantity removes one unit. At quantity one it is a no-op;
// removal is an explicit separate action.
func (e *Engine) DecrementQuantity(ctx context.Context, productID, variantID string) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, ok := e.cart.Get(productID, variantID)
	if !ok {
		e.notify.Error("Item not found in cart")
		return Outcome{}, domain.ErrItemNotFound
	}
	if !stock.CanDecrement(item.Quantity) {
		return Outcome{}, nil
	}

	if err := e.cart.UpdateQuantity(productID, variantID, item.Quantity-1); err != nil {
		return Outcome{}, err
	}
	e.persistLocked()
	e.notify.Success("Cart updated")
	e.emit(events.TypeCartItemUpdated, productID, variantID, item.Quantity-1)
	return Outcome{Message: "Cart updated"}, nil
}

// RemoveFromCart deletes the line item. Removing an absent item is a
// no-op success.
func (e *Engine) RemoveFromCart(ctx context.Context, productID, variantID string) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, ok := e.cart.Get(productID, variantID)
	if !ok {
		return Outcome{}, nil
	}
	return e.removeLocked(ctx, item), nil
}

func (e *Engine) removeLocked(ctx context.Context, item domain.LineItem) Outcome {
	e.cart.RemoveItem(item.ProductID, item.VariantID)
	e.persistLocked()
	e.notify.Success("Removed from cart")
	e.emit(events.TypeCartItemRemoved, item.ProductID, item.VariantID, 0)
	return Outcome{Message: "Removed from cart"}
}

func (e *Engine) ClearCart(ctx context.Context) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cart.Clear()
	e.persistLocked()
	e.notify.Success("Cart cleared")
	e.emit(events.TypeCartCleared, "", "", 0)
	return Outcome{Message: "Cart cleared"}, nil
}

func (e *Engine) ClearPreorder(ctx context.Context) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.preorder.ClearItem()
	e.persistLocked()
	e.notify.Success("Pre-order removed")
	e.emit(events.TypePreorderCleared, "", "", 0)
	return Outcome{Message: "Pre-order removed"}, nil
}

// ToggleWishlist adds the product (or variant) to the wishlist, or
// removes it when already present. The snapshot uses the current
// effective price; wishlist membership never couples to stock.
func (e *Engine) ToggleWishlist(ctx context.Context, p *domain.Product, variantID string) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var variant *domain.Variant
	if p.HasVariants {
		variant = p.FindVariant(variantID)
		if variant == nil {
			e.notify.Error("Please select a valid option")
			return Outcome{}, domain.ErrInvalidVariant
		}
	}

	price := pricing.Resolve(variant, p.SellingPrice, time.Now())

	item := domain.WishlistItem{
		ID:         p.ID,
		ProductID:  p.ID,
		Name:       p.Name,
		Price:      price.DisplayPrice,
		Discounted: price.IsOfferActive,
		Currency:   p.Currency,
		AddedAt:    time.Now(),
	}
	if variant != nil {
		item.ID = variant.ID
		item.Values = variant.Values
		item.ImageURL = variant.ImageURL
	}

	added := e.wishlist.Toggle(item)
	e.persistLocked()
	if added {
		e.notify.Success("Saved to wishlist")
		e.emit(events.TypeWishlistAdded, p.ID, variantID, 0)
		return Outcome{InWishlist: true, Message: "Saved to wishlist"}, nil
	}
	e.notify.Success("Removed from wishlist")
	e.emit(events.TypeWishlistRemoved, p.ID, variantID, 0)
	return Outcome{Message: "Removed from wishlist"}, nil
}

// View returns a consistent snapshot of the whole session.
func (e *Engine) View() CartView {
	e.mu.Lock()
	defer e.mu.Unlock()

	return CartView{
		Items:     e.cart.Items(),
		ItemCount: e.cart.ItemCount(),
		Subtotal:  e.cart.Subtotal(),
		Discount:  e.cart.Discount(),
		Preorder:  e.preorder.Item(),
		Wishlist:  e.wishlist.Items(),
		Conflict:  e.resolver.State(),
	}
}

// buildLineItem resolves the variant, prices it and clamps the
// quantity. A broken price degrades to the documented minimum and never
// blocks the add; zero stock does, unless the variant is pre-order.
func (e *Engine) buildLineItem(p *domain.Product, variantID string, quantity int) (domain.LineItem, error) {
	var variant *domain.Variant
	if p.HasVariants {
		variant = p.FindVariant(variantID)
		if variant == nil {
			e.notify.Error("Please select a valid option")
			return domain.LineItem{}, domain.ErrInvalidVariant
		}
	}

	price := pricing.Resolve(variant, p.SellingPrice, time.Now())

	available := p.Stock
	isPreorder := false
	if variant != nil {
		available = variant.Stock
		isPreorder = variant.Preorder
	}

	if !isPreorder && available < 1 {
		e.notify.Error("Out of stock")
		return domain.LineItem{}, domain.ErrOutOfStock
	}

	item := domain.LineItem{
		ProductID:    p.ID,
		VariantID:    variantID,
		Name:         p.Name,
		Quantity:     stock.Clamp(quantity, available, isPreorder),
		UnitPrice:    price.DisplayPrice,
		SellingPrice: price.SellingPrice,
		Discounted:   price.IsOfferActive,
		Currency:     p.Currency,
		MaxStock:     available,
		Groups:       p.VariantGroups,
		Preorder:     isPreorder,
		AddedAt:      time.Now(),
	}
	if variant != nil {
		item.Values = variant.Values
		item.ImageURL = variant.ImageURL
	}
	return item, nil
}

// persistLocked writes through to the persistence collaborator. The
// in-memory stores are the source of truth: failures are logged and
// swallowed, never rolled back.
func (e *Engine) persistLocked() {
	state := &domain.CartState{
		Items:    e.cart.Items(),
		Preorder: e.preorder.Item(),
		Wishlist: e.wishlist.Items(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := e.persist.SaveState(ctx, e.sessionID, state); err != nil {
		log.Printf("session %s: persist write failed: %v", e.sessionID, err)
	}
}

func (e *Engine) emit(eventType events.Type, productID, variantID string, quantity int) {
	e.emitter.Emit(events.Event{
		SessionID: e.sessionID,
		Type:      eventType,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	})
}
