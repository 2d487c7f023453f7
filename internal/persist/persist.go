// Package persist is the best-effort write-through collaborator. The
// in-memory stores are the source of truth for the session; failures
// here are logged by the caller and never roll back a mutation.
package persist

import (
	"context"
	"errors"

	"github.com/suma-expressitbd/storefront-core/internal/domain"
)

var ErrNotFound = errors.New("no saved state for session")

type Store interface {
	SaveState(ctx context.Context, sessionID string, state *domain.CartState) error
	LoadState(ctx context.Context, sessionID string) (*domain.CartState, error)

	// MarkVisited records the first-visit flag with a short TTL;
	// SeenRecently reports whether the flag is still live.
	MarkVisited(ctx context.Context, sessionID string) error
	SeenRecently(ctx context.Context, sessionID string) (bool, error)
}

// Noop satisfies Store when no backing store is reachable. Hydration
// sees an empty session and writes vanish.
type Noop struct{}

func (Noop) SaveState(context.Context, string, *domain.CartState) error { return nil }

func (Noop) LoadState(context.Context, string) (*domain.CartState, error) {
	return nil, ErrNotFound
}

func (Noop) MarkVisited(context.Context, string) error { return nil }

func (Noop) SeenRecently(context.Context, string) (bool, error) { return false, nil }
