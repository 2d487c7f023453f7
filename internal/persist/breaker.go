package persist

import (
	"context"
	"errors"

	"github.com/sony/gobreaker/v2"

	"github.com/suma-expressitbd/storefront-core/internal/domain"
)

// Breaker wraps a Store with a circuit breaker so a dead backing store
// fails fast instead of stalling every cart mutation on a timeout.
// A missing-state read is not a failure.
type Breaker struct {
	inner Store
	cb    *gobreaker.CircuitBreaker[any]
}

func NewBreaker(inner Store) *Breaker {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name: "persist",
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	})
	return &Breaker{inner: inner, cb: cb}
}

func (b *Breaker) SaveState(ctx context.Context, sessionID string, state *domain.CartState) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.inner.SaveState(ctx, sessionID, state)
	})
	return err
}

func (b *Breaker) LoadState(ctx context.Context, sessionID string) (*domain.CartState, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.inner.LoadState(ctx, sessionID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.CartState), nil
}

func (b *Breaker) MarkVisited(ctx context.Context, sessionID string) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.inner.MarkVisited(ctx, sessionID)
	})
	return err
}

func (b *Breaker) SeenRecently(ctx context.Context, sessionID string) (bool, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.inner.SeenRecently(ctx, sessionID)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}
