// Package conflict mediates the mutual exclusivity between the regular
// cart and the pre-order slot. A blocked add is never an error: the
// resolver parks the intent and surfaces a user decision point; the
// stores stay untouched until the user chooses.
package conflict

import (
	"github.com/suma-expressitbd/storefront-core/internal/cart"
	"github.com/suma-expressitbd/storefront-core/internal/domain"
	"github.com/suma-expressitbd/storefront-core/internal/preorder"
)

type State string

const (
	StateIdle State = "IDLE"
	// StatePreorderConflict: regular-cart add blocked by an occupied
	// pre-order slot.
	StatePreorderConflict State = "PREORDER_CONFLICT"
	// StateCartConflict: pre-order add blocked by a non-empty regular
	// cart. Pre-order is never addable alongside regular items.
	StateCartConflict State = "CART_CONFLICT"
	// StatePreorderReplace: pre-order add while the slot holds a
	// different item.
	StatePreorderReplace State = "PREORDER_REPLACE"
)

type Decision string

const (
	DecisionClearAndProceed Decision = "CLEAR_AND_PROCEED"
	DecisionGoToCheckout    Decision = "GO_TO_CHECKOUT"
	DecisionCancel          Decision = "CANCEL"
)

// Gate is the result of evaluating an add intent against live store
// state. When not allowed, Choices lists the affirmative outcomes to
// present; Cancel is always accepted as a dismissal.
type Gate struct {
	Allowed bool
	State   State
	Choices []Decision
}

// Resolution reports what a decision did: whether stores mutated and
// whether checkout navigation was requested.
type Resolution struct {
	Mutated          bool
	NavigateCheckout bool
}

type Resolver struct {
	cart     *cart.Store
	preorder *preorder.Store
	state    State
	pending  *domain.LineItem
}

func NewResolver(c *cart.Store, p *preorder.Store) *Resolver {
	return &Resolver{
		cart:     c,
		preorder: p,
		state:    StateIdle,
	}
}

func (r *Resolver) State() State {
	return r.state
}

// RequestRegularAdd gates an add to the regular cart. Intents must be
// evaluated against current store state, so the caller serializes adds;
// the gate check happens-before the mutation it guards.
func (r *Resolver) RequestRegularAdd(item domain.LineItem) Gate {
	if r.preorder.Occupied() {
		r.state = StatePreorderConflict
		r.pending = &item
		return Gate{
			State:   StatePreorderConflict,
			Choices: []Decision{DecisionClearAndProceed, DecisionGoToCheckout},
		}
	}
	r.reset()
	return Gate{Allowed: true, State: StateIdle}
}

// RequestPreorderAdd gates an add to the pre-order slot. A non-empty
// regular cart offers only "clear and proceed" — no checkout-first
// alternative on this side. An occupied slot holding a different item
// asks replace-or-checkout; the same item passes through (the slot
// replaces, refreshing the snapshot).
func (r *Resolver) RequestPreorderAdd(item domain.LineItem) Gate {
	if !r.cart.IsEmpty() {
		r.state = StateCartConflict
		r.pending = &item
		return Gate{
			State:   StateCartConflict,
			Choices: []Decision{DecisionClearAndProceed},
		}
	}
	if existing := r.preorder.Item(); existing != nil && existing.Key() != item.Key() {
		r.state = StatePreorderReplace
		r.pending = &item
		return Gate{
			State:   StatePreorderReplace,
			Choices: []Decision{DecisionClearAndProceed, DecisionGoToCheckout},
		}
	}
	r.reset()
	return Gate{Allowed: true, State: StateIdle}
}

// Resolve applies the user's decision to the pending conflict. Every
// resolution returns the resolver to idle.
func (r *Resolver) Resolve(decision Decision) (Resolution, error) {
	if r.state == StateIdle || r.pending == nil {
		return Resolution{}, domain.ErrNoPendingConflict
	}
	if decision == DecisionCancel {
		r.reset()
		return Resolution{}, nil
	}

	pending := *r.pending
	switch r.state {
	case StatePreorderConflict:
		switch decision {
		case DecisionClearAndProceed:
			r.preorder.ClearItem()
			r.cart.AddItem(pending)
			r.reset()
			return Resolution{Mutated: true}, nil
		case DecisionGoToCheckout:
			r.reset()
			return Resolution{NavigateCheckout: true}, nil
		}

	case StateCartConflict:
		if decision == DecisionClearAndProceed {
			r.cart.Clear()
			r.preorder.SetItem(pending)
			r.reset()
			return Resolution{Mutated: true, NavigateCheckout: true}, nil
		}

	case StatePreorderReplace:
		switch decision {
		case DecisionClearAndProceed:
			r.preorder.SetItem(pending)
			r.reset()
			return Resolution{Mutated: true, NavigateCheckout: true}, nil
		case DecisionGoToCheckout:
			r.reset()
			return Resolution{NavigateCheckout: true}, nil
		}
	}

	return Resolution{}, domain.ErrInvalidDecision
}

func (r *Resolver) reset() {
	r.state = StateIdle
	r.pending = nil
}
